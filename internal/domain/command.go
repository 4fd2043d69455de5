package domain

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// CommandExchange is the only reserved chat command.
	CommandExchange = "exchange"

	DefaultDays = 1
	MaxDays     = 10
)

// Validation messages sent back to the requester.
const (
	MsgDaysNotInteger = "First parameter mast be integer"
	MsgDaysTooLarge   = "Number of days can't be more than 10"
	MsgDaysTooSmall   = "Number of days must be at least 1"
)

// DefaultCurrencies is used when an exchange command names no currency.
var DefaultCurrencies = []string{"USD", "EUR"}

// CommandRequest is a validated exchange command.
type CommandRequest struct {
	Days       int
	Currencies []string
}

// IsCommand reports whether the first whitespace-delimited token is the exchange keyword.
// The match is case-sensitive.
func IsCommand(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && fields[0] == CommandExchange
}

// ParseCommand parses "exchange [<days>] [<currency>...]".
// The caller must check IsCommand first; the leading token is not re-validated.
func ParseCommand(line string, defaults []string) (CommandRequest, error) {
	fields := strings.Fields(line)

	req := CommandRequest{Days: DefaultDays}
	if len(fields) > 1 {
		days, err := strconv.Atoi(fields[1])
		if err != nil {
			// Out-of-range values are still integers.
			if errors.Is(err, strconv.ErrRange) {
				if strings.HasPrefix(fields[1], "-") {
					return CommandRequest{}, &ValidationError{Message: MsgDaysTooSmall}
				}
				return CommandRequest{}, &ValidationError{Message: MsgDaysTooLarge}
			}
			return CommandRequest{}, &ValidationError{Message: MsgDaysNotInteger}
		}
		if days > MaxDays {
			return CommandRequest{}, &ValidationError{Message: MsgDaysTooLarge}
		}
		if days < 1 {
			return CommandRequest{}, &ValidationError{Message: MsgDaysTooSmall}
		}
		req.Days = days
	}

	if len(fields) > 2 {
		req.Currencies = make([]string, 0, len(fields)-2)
		for _, code := range fields[2:] {
			req.Currencies = append(req.Currencies, strings.ToUpper(code))
		}
	} else {
		if len(defaults) == 0 {
			defaults = DefaultCurrencies
		}
		req.Currencies = append([]string(nil), defaults...)
	}

	return req, nil
}
