package catalog

// Built-in definitions written to an empty catalog directory. One generic
// template for standard market submissions and one specialized template
// for launch & in-orbit placements, each with its field-rule set.
var defaultDefinitions = map[string]string{
	"standard_insurance.yaml":           defaultStandardTemplate,
	"standard_insurance_rules.yaml":     defaultStandardRules,
	"launch_orbit_insurance.yaml":       defaultLaunchTemplate,
	"launch_orbit_insurance_rules.yaml": defaultLaunchRules,
}

const defaultStandardTemplate = `name: Standard Insurance Submission
description: Standard insurance submission form template
required_keywords:
  - unique market reference
  - umr
  - type of insurance
  - named insured
  - policy period
  - amount of insurance
optional_keywords:
  - broker
  - underwriter
  - deductible
  - premium
  - coverage
layout_anchors:
  - keyword: unique market reference
    expected_position: {x: 0.1, y: 0.2, tolerance: 0.3}
    weight: 3.0
  - keyword: named insured
    expected_position: {x: 0.1, y: 0.3, tolerance: 0.3}
    weight: 2.0
  - keyword: policy period
    expected_position: {x: 0.1, y: 0.5, tolerance: 0.3}
    weight: 2.0
confidence_thresholds:
  keyword_match: 0.7
  layout_match: 0.6
  overall_match: 0.75
`

const defaultStandardRules = `fields:
  unique_market_reference:
    patterns:
      - '(?:unique market reference|umr)[\s:]*([A-Z0-9]{10,20})'
      - 'umr[\s:]*([A-Z0-9]{10,20})'
      - 'reference[\s:]*([A-Z0-9]{10,20})'
    anchor_keywords: [unique market reference, umr, reference]
    search_radius: {x: 0.5, y: 0.1}
    value_type: string
    required: true
  type_of_insurance:
    patterns:
      - '(?:type of insurance|insurance type)[\s:]*([^\n\r]{5,50})'
      - 'coverage[\s:]*([^\n\r]{5,50})'
    anchor_keywords: [type of insurance, insurance type, coverage]
    search_radius: {x: 0.5, y: 0.1}
    value_type: string
    required: true
  named_insured:
    patterns:
      - '(?:named insured|insured)[\s:]*([^\n\r]{5,100})'
      - 'policyholder[\s:]*([^\n\r]{5,100})'
    anchor_keywords: [named insured, insured, policyholder]
    search_radius: {x: 0.5, y: 0.1}
    value_type: string
    required: true
  policy_period_start:
    patterns:
      - '(?:policy period|period)[\s:]*(?:from[\s:]*)?([0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4})'
      - '(?:effective|start)[\s:]*([0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4})'
      - 'from[\s:]*([0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4})'
    anchor_keywords: [policy period, effective, start, from]
    search_radius: {x: 0.5, y: 0.1}
    value_type: date
    required: true
  policy_period_end:
    patterns:
      - '(?:to|until|end)[\s:]*([0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4})'
      - 'expir[ey][\s:]*([0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4})'
    anchor_keywords: [to, until, end, expiry]
    search_radius: {x: 0.5, y: 0.1}
    value_type: date
    required: true
  amount_of_insurance:
    patterns:
      - '(?:amount of insurance|sum insured|limit)[\s:]*([A-Z]{3}\s*[0-9,]+(?:\.[0-9]{2})?)'
      - '([A-Z]{3}\s*[0-9,]+(?:\.[0-9]{2})?)\s*(?:amount|sum|limit)'
    anchor_keywords: [amount of insurance, sum insured, limit]
    search_radius: {x: 0.5, y: 0.1}
    value_type: currency
    required: true
`

const defaultLaunchTemplate = `name: Launch & In Orbit Insurance
description: Satellite launch and in-orbit insurance template
required_keywords:
  - launch
  - orbit
  - satellite
  - spacecraft
  - mission
  - launch date
optional_keywords:
  - payload
  - launcher
  - ground risk
  - third party liability
  - mission duration
layout_anchors:
  - keyword: launch date
    expected_position: {x: 0.1, y: 0.4, tolerance: 0.3}
    weight: 3.0
  - keyword: satellite
    expected_position: {x: 0.1, y: 0.2, tolerance: 0.3}
    weight: 2.0
confidence_thresholds:
  keyword_match: 0.6
  layout_match: 0.5
  overall_match: 0.65
`

const defaultLaunchRules = `fields:
  unique_market_reference:
    patterns:
      - '(?:unique market reference|umr)[\s:]*([A-Z0-9]{10,20})'
      - 'umr[\s:]*([A-Z0-9]{10,20})'
    anchor_keywords: [unique market reference, umr]
    search_radius: {x: 0.5, y: 0.1}
    value_type: string
    required: true
  type_of_insurance:
    patterns:
      - '(?:launch.*orbit|satellite.*insurance|space.*insurance)'
      - '(?:type of insurance)[\s:]*([^\n\r]*(?:launch|orbit|satellite|space)[^\n\r]*)'
    anchor_keywords: [type of insurance, launch, orbit, satellite]
    search_radius: {x: 0.5, y: 0.1}
    value_type: string
    required: true
  named_insured:
    patterns:
      - '(?:named insured|insured)[\s:]*([^\n\r]{5,100})'
      - 'satellite owner[\s:]*([^\n\r]{5,100})'
    anchor_keywords: [named insured, insured, satellite owner]
    search_radius: {x: 0.5, y: 0.1}
    value_type: string
    required: true
  launch_date:
    patterns:
      - '(?:launch date|launch)[\s:]*([0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4})'
      - 'scheduled launch[\s:]*([0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4})'
    anchor_keywords: [launch date, launch, scheduled launch]
    search_radius: {x: 0.5, y: 0.1}
    value_type: date
    required: true
  amount_of_insurance:
    patterns:
      - '(?:amount of insurance|sum insured|limit)[\s:]*([A-Z]{3}\s*[0-9,]+(?:\.[0-9]{2})?)'
      - '([A-Z]{3}\s*[0-9,]+(?:\.[0-9]{2})?)\s*(?:amount|sum|limit)'
    anchor_keywords: [amount of insurance, sum insured, limit]
    search_radius: {x: 0.5, y: 0.1}
    value_type: currency
    required: true
`
