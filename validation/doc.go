// Package validation validates configuration and request values with
// go-playground/validator struct tags.
//
//	type Config struct {
//	    Timeout time.Duration `validate:"gt=0"`
//	}
//	err := validation.Struct(cfg)
//
// Besides the validator built-ins, the "nocrlf" tag rejects strings that
// contain carriage returns or line feeds (header injection).
package validation
