package usecase

import (
	"strconv"
	"strings"
	"unicode"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

const (
	maxNameLength    = 100
	maxCommentLength = 1000
	maxQuantity      = 99
	maxCutlery       = 50
)

// NormalizePhone reduces +7XXXXXXXXXX, 8XXXXXXXXXX, 7XXXXXXXXXX and XXXXXXXXXX
// to the +7XXXXXXXXXX form. Spaces, dashes, dots and parentheses are ignored.
func NormalizePhone(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	plus := strings.HasPrefix(raw, "+")

	var digits strings.Builder
	for i, r := range raw {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", false
		}
	}

	d := digits.String()
	switch {
	case len(d) == 11 && d[0] == '7':
		d = d[1:]
	case len(d) == 11 && d[0] == '8' && !plus:
		d = d[1:]
	case len(d) == 10 && !plus:
	default:
		return "", false
	}
	return "+7" + d, true
}

// SamePhone reports whether a and b are representations of one number.
func SamePhone(a, b string) bool {
	na, ok := NormalizePhone(a)
	if !ok {
		return false
	}
	nb, ok := NormalizePhone(b)
	return ok && na == nb
}

func validateCreateInput(in CreateOrderInput) error {
	var v domainErrors.ValidationError

	name := strings.TrimSpace(in.Customer.Name)
	switch {
	case name == "":
		v.Add("customer.name", "is required")
	case len([]rune(name)) > maxNameLength:
		v.Add("customer.name", "is too long")
	}

	if strings.TrimSpace(in.Customer.Phone) == "" {
		v.Add("customer.phone", "is required")
	} else if _, ok := NormalizePhone(in.Customer.Phone); !ok {
		v.Add("customer.phone", "has invalid format")
	}

	if len(in.Items) == 0 {
		v.Add("items", "must not be empty")
	}
	for i, item := range in.Items {
		prefix := "items[" + strconv.Itoa(i) + "]"
		if strings.TrimSpace(item.ProductID) == "" {
			v.Add(prefix+".product_id", "is required")
		}
		if item.Quantity < 1 || item.Quantity > maxQuantity {
			v.Add(prefix+".quantity", "must be between 1 and "+strconv.Itoa(maxQuantity))
		}
	}

	if !in.Fulfillment.Type.Valid() {
		v.Add("fulfillment.type", "must be delivery or pickup")
	} else if in.Fulfillment.Type == model.FulfillmentDelivery && strings.TrimSpace(in.Fulfillment.Address) == "" {
		v.Add("fulfillment.address", "is required for delivery")
	}

	if !in.Payment.Method.Valid() {
		v.Add("payment.method", "must be cash, card_online or card_on_site")
	}

	if in.CutleryCount < 0 || in.CutleryCount > maxCutlery {
		v.Add("cutlery_count", "must be between 0 and "+strconv.Itoa(maxCutlery))
	}

	if len([]rune(in.Comment)) > maxCommentLength {
		v.Add("comment", "is too long")
	}

	return v.Err()
}
