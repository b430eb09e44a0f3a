package config

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var varNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var logLevels = map[string]bool{
	"TRACE": true, "DEBUG": true, "INFO": true,
	"WARN": true, "WARNING": true, "ERROR": true, "FATAL": true,
}

// Validate checks a project config.
func (c *ProjectConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ProcedureFile, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("engmgr.config.procedure_file_required", "procedure_file is required")
			}
			return nil
		})),
		validation.Field(&c.Variables, validation.By(func(value any) error {
			return validateVars(value.(OrderedVars))
		})),
	)
}

func validateVars(vars OrderedVars) error {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if v.Key == "" {
			return validation.NewError("engmgr.config.variable_empty", "empty variable name")
		}
		if !varNameRe.MatchString(v.Key) {
			return validation.NewError("engmgr.config.variable_invalid",
				fmt.Sprintf("%q is not a valid variable name (must match [A-Za-z_][A-Za-z0-9_]*)", v.Key))
		}
		if seen[v.Key] {
			return validation.NewError("engmgr.config.variable_duplicate",
				fmt.Sprintf("duplicate variable %q", v.Key))
		}
		seen[v.Key] = true
	}
	return nil
}

// Validate checks the settings enums and their combinations.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ServerName, validation.Required),
		validation.Field(&s.Transport,
			validation.Required,
			validation.In(TransportStdio, TransportHTTP).Error("must be stdio or http"),
		),
		validation.Field(&s.HTTPAddr, validation.When(s.Transport == TransportHTTP, validation.Required)),
		validation.Field(&s.LogLevel, validation.By(func(value any) error {
			if !logLevels[strings.ToUpper(strings.TrimSpace(value.(string)))] {
				return validation.NewError("engmgr.config.log_level_invalid",
					"must be one of TRACE, DEBUG, INFO, WARN, ERROR, FATAL")
			}
			return nil
		})),
		validation.Field(&s.LogFormat,
			validation.In(LogFormatConsole, LogFormatJSON, LogFormatPretty).Error("must be console, json or pretty"),
			validation.When(s.Transport == TransportStdio,
				validation.In(LogFormatConsole).Error("must be console with the stdio transport")),
		),
		validation.Field(&s.LogFile, validation.By(func(value any) error {
			if value.(string) != "" && s.LogFormat != LogFormatConsole {
				return validation.NewError("engmgr.config.log_file_format",
					"is only supported with the console log format")
			}
			return nil
		})),
	)
}
