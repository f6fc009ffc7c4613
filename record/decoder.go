package record

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	appprofileserrors "github.com/leodido/appprofiles/errors"
	"github.com/spf13/viper"
)

// Decoder turns configuration documents into records.
//
// Decoding is all-or-nothing: either a complete, transformed, and validated record is returned or a DecodeError.
// Unknown keys are ignored.
type Decoder struct {
	molder   *mold.Transformer
	validate *validator.Validate
}

// NewDecoder creates a Decoder with its own transformer and validator instances.
func NewDecoder() *Decoder {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterStructValidation(validateProfileRegex, Record{})

	return &Decoder{
		molder:   modifiers.New(),
		validate: validate,
	}
}

// validateProfileRegex reports a missing pattern as "required" and a pattern without group 1 as "capturegroup".
func validateProfileRegex(sl validator.StructLevel) {
	rec := sl.Current().Interface().(Record)
	switch {
	case rec.ProfileRegex == nil:
		sl.ReportError(rec.ProfileRegex, "ProfileRegex", "ProfileRegex", "required", "")
	case rec.ProfileRegex.NumSubexp() < 1:
		sl.ReportError(rec.ProfileRegex, "ProfileRegex", "ProfileRegex", "capturegroup", rec.ProfileRegex.String())
	}
}

var defaultDecoder = NewDecoder()

// Decode decodes a document using the default decoder.
func Decode(data []byte, format string) (*Record, error) {
	return defaultDecoder.Decode(context.Background(), data, format)
}

// Decode decodes one document of the given format (see Formats).
func (d *Decoder) Decode(ctx context.Context, data []byte, format string) (*Record, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, appprofileserrors.NewDecodeError("", fmt.Sprintf("couldn't parse %s", format), err)
	}

	var missing []string
	for _, key := range requiredKeys {
		if !v.IsSet(key) {
			missing = append(missing, fmt.Sprintf("'%s'", key))
		}
	}
	if len(missing) > 0 {
		return nil, appprofileserrors.NewDecodeError("", fmt.Sprintf("missing required field %s", strings.Join(missing, ", ")), nil)
	}

	rec := &Record{}
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		StringToRegexpHookFunc(),
	))
	strict := func(c *mapstructure.DecoderConfig) {
		c.WeaklyTypedInput = false
	}
	if err := v.Unmarshal(rec, decodeHook, strict); err != nil {
		return nil, appprofileserrors.NewDecodeError("", "couldn't decode fields", err)
	}

	if err := d.molder.Struct(ctx, rec); err != nil {
		return nil, appprofileserrors.NewDecodeError("", "couldn't transform fields", err)
	}

	if errs := d.check(rec); len(errs) > 0 {
		valErr := &appprofileserrors.ValidationError{
			ContextName: "record",
			Errors:      errs,
		}

		return nil, appprofileserrors.NewDecodeError("", "validation failed", valErr)
	}

	return rec, nil
}

func (d *Decoder) check(rec *Record) []error {
	err := d.validate.Struct(rec)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []error{fmt.Errorf("validator.Struct() failed unexpectedly: %w", err)}
	}

	errs := make([]error, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		switch {
		case fieldErr.StructField() == "ProfileRegex" && fieldErr.Tag() == "required":
			errs = append(errs, fmt.Errorf("field 'profile_regex': missing pattern"))
		case fieldErr.Tag() == "capturegroup":
			errs = append(errs, fmt.Errorf("field 'profile_regex': pattern '%s' has no capture group 1", fieldErr.Param()))
		default:
			errs = append(errs, fieldErr)
		}
	}

	return errs
}
