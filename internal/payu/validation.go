package payu

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"payupl/pkg/pointers"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/pl"
	ut "github.com/go-playground/universal-translator"
	playground "github.com/go-playground/validator/v10"
)

var (
	digitsRegex       = regexp.MustCompile(`^\d+$`)
	currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	ipv4Regex         = regexp.MustCompile(`^(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(?:\.(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3}$`)
	// Loose on purpose: the API accepts every IPv6 notation.
	ipv6Regex = regexp.MustCompile(`^[0-9a-fA-F:]+$`)
)

// Message keys shared by both locales.
const (
	msgFilled               = "filled"
	msgNumericString        = "numeric_string"
	msgISO4217              = "iso_4217"
	msgMaxLength            = "max_length"
	msgMinItems             = "min_items"
	msgIPAddress            = "ip_address"
	msgRequiredWithAmount   = "required_with_amount"
	msgRequiredWithCurrency = "required_with_currency_code"
	msgObject               = "object"
)

// Custom validator tags.
const (
	tagRequiredWithAmount   = "required_with_amount"
	tagRequiredWithCurrency = "required_with_currency_code"
	tagDigits               = "digits"
	tagCurrencyCode         = "currency_code"
	tagCustomerIP           = "customer_ip"
	tagNonEmptyObject       = "non_empty_object"
)

const defaultLocale = "en"

var translations = map[string]map[string]string{
	"en": {
		msgFilled:               "must be filled",
		msgNumericString:        "must be a numeric string",
		msgISO4217:              "must be a 3-letter ISO 4217 currency code",
		msgMaxLength:            "length must not exceed {0}",
		msgMinItems:             "must contain at least {0} item(s)",
		msgIPAddress:            "must be a valid IP address",
		msgRequiredWithAmount:   "is required when amount is provided",
		msgRequiredWithCurrency: "is required when currency_code is provided",
		msgObject:               "must be a non-empty object",
	},
	"pl": {
		msgFilled:               "musi być wypełnione",
		msgNumericString:        "musi być ciągiem cyfr",
		msgISO4217:              "musi być 3-literowym kodem waluty ISO 4217",
		msgMaxLength:            "długość nie może przekraczać {0}",
		msgMinItems:             "musi zawierać co najmniej {0} element(y)",
		msgIPAddress:            "musi być poprawnym adresem IP",
		msgRequiredWithAmount:   "jest wymagane, gdy podano kwotę",
		msgRequiredWithCurrency: "jest wymagane, gdy podano kod waluty",
		msgObject:               "musi być niepustym obiektem",
	},
}

// tagMessages maps validator tags to message keys.
var tagMessages = map[string]string{
	"required":              msgFilled,
	"max":                   msgMaxLength,
	"min":                   msgMinItems,
	tagDigits:               msgNumericString,
	tagCurrencyCode:         msgISO4217,
	tagCustomerIP:           msgIPAddress,
	tagRequiredWithAmount:   msgRequiredWithAmount,
	tagRequiredWithCurrency: msgRequiredWithCurrency,
	tagNonEmptyObject:       msgObject,
}

type validator struct {
	validate   *playground.Validate
	translator ut.Translator
}

func newValidator(locale string) (*validator, error) {
	if locale == "" {
		locale = defaultLocale
	}
	if _, ok := translations[locale]; !ok {
		return nil, fmt.Errorf("unsupported locale %q (use en or pl)", locale)
	}

	uni := ut.New(en.New(), en.New(), pl.New())
	trans, ok := uni.GetTranslator(locale)
	if !ok {
		return nil, fmt.Errorf("no translator for locale %q", locale)
	}
	for key, text := range translations[locale] {
		if err := trans.Add(key, text, true); err != nil {
			return nil, fmt.Errorf("add translation %s: %w", key, err)
		}
	}

	v := playground.New(playground.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	customs := map[string]playground.Func{
		tagDigits:       matchString(digitsRegex),
		tagCurrencyCode: matchString(currencyCodeRegex),
		tagCustomerIP: func(fl playground.FieldLevel) bool {
			ip := fl.Field().String()
			return ipv4Regex.MatchString(ip) || ipv6Regex.MatchString(ip)
		},
		tagNonEmptyObject: func(fl playground.FieldLevel) bool {
			return fl.Field().Kind() == reflect.Map && fl.Field().Len() > 0
		},
	}
	for tag, fn := range customs {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("register %s: %w", tag, err)
		}
	}
	v.RegisterStructValidation(validateCapture, captureParams{})

	for tag, key := range tagMessages {
		key := key
		err := v.RegisterTranslation(tag, trans,
			func(ut.Translator) error { return nil },
			func(t ut.Translator, fe playground.FieldError) string {
				msg, err := t.T(key, fe.Param())
				if err != nil {
					return fe.Error()
				}
				return msg
			},
		)
		if err != nil {
			return nil, fmt.Errorf("register translation %s: %w", tag, err)
		}
	}

	return &validator{validate: v, translator: trans}, nil
}

func matchString(re *regexp.Regexp) playground.Func {
	return func(fl playground.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// check validates s and converts failures into a *ValidationError.
func (v *validator) check(s any, input any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := make(map[string][]string)
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		out[field] = append(out[field], fe.Translate(v.translator))
	}
	return &ValidationError{Errors: out, Input: input}
}

// fieldPath drops the root struct name: "OrderCreateRequest.products[0].name"
// becomes "products[0].name".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

type idParams struct {
	ID string `json:"id" validate:"required"`
}

// checkIDs validates named identifiers, reporting errors under their names.
func (v *validator) checkIDs(ids ...[2]string) error {
	out := make(map[string][]string)
	input := make(map[string]string, len(ids))
	for _, pair := range ids {
		name, value := pair[0], pair[1]
		input[name] = value
		err := v.check(idParams{ID: value}, nil)
		var verr *ValidationError
		if errors.As(err, &verr) {
			out[name] = append(out[name], verr.Errors["id"]...)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return &ValidationError{Errors: out, Input: input}
}

type captureParams struct {
	OrderID      string  `json:"order_id" validate:"required"`
	Amount       *string `json:"amount"`
	CurrencyCode *string `json:"currency_code"`
}

func validateCapture(sl playground.StructLevel) {
	p := sl.Current().Interface().(captureParams)
	if p.Amount == nil && p.CurrencyCode == nil {
		return
	}

	amount := pointers.Value(p.Amount)
	switch {
	case amount == "":
		sl.ReportError(amount, "amount", "Amount", tagRequiredWithCurrency, "")
	case !digitsRegex.MatchString(amount):
		sl.ReportError(amount, "amount", "Amount", tagDigits, "")
	}

	currency := pointers.Value(p.CurrencyCode)
	switch {
	case currency == "":
		sl.ReportError(currency, "currency_code", "CurrencyCode", tagRequiredWithAmount, "")
	case !currencyCodeRegex.MatchString(currency):
		sl.ReportError(currency, "currency_code", "CurrencyCode", tagCurrencyCode, "")
	}
}

type refundParams struct {
	OrderID     string  `json:"order_id" validate:"required"`
	Description string  `json:"description" validate:"required,max=4000"`
	Amount      *string `json:"amount" validate:"omitnil,digits"`
	ExtRefundID *string `json:"ext_refund_id" validate:"omitnil,max=1024"`
}

type payoutParams struct {
	Payload map[string]any `json:"payload" validate:"required,non_empty_object"`
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
