package domain

import "errors"

var (
	ErrTemplateNotFound   = errors.New("template not found")
	ErrNoRulesForTemplate = errors.New("no field rules found for template")
	ErrNoTemplates        = errors.New("catalog contains no templates")
)
