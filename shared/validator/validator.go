package validator

import (
	"dogwalking/shared/failure"
	"dogwalking/shared/money"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	validate *val.Validate

	referralCodePattern = regexp.MustCompile(`^DW[A-Z0-9]{6}$`)
)

func registerNotBlankValidation(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)
	if !ok {
		return !field.Field().IsZero()
	}

	return strings.TrimSpace(str) != ""
}

// registerAmountValidation accepts a decimal string with at most two fractional digits
// and a value strictly above zero.
func registerAmountValidation(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	amount, err := money.ParseAmount(str)
	if err != nil {
		return false
	}

	return amount.IsPositive()
}

func registerReferralCodeValidation(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)

	return ok && referralCodePattern.MatchString(str)
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})

	err := validate.RegisterValidation("empty", func(fl val.FieldLevel) bool {
		return fl.Field().IsZero()
	})
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("notblank", registerNotBlankValidation)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("amount", registerAmountValidation)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("referralcode", registerReferralCodeValidation)
	if err != nil {
		panic(err)
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
