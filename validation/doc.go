// Package validation provides the two validation styles used by entityhttp.
//
// Struct tag validation (go-playground/validator) checks typed
// configuration values:
//
//	type Configuration struct {
//	    Timeout time.Duration `validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic validation collects several field problems before failing,
// which suits configuration files describing many clients at once:
//
//	v := validation.New()
//	v.Required("clients.NG.base_url", cfg.BaseURL)
//	err := v.Validate()
//
// Both styles produce an *errors.AppError whose Details["fields"] lists every
// offending field. The error code defaults to VALIDATION_ERROR and can be
// overridden with WithCode.
package validation
