package network

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// disabledFlag is the channel_flags bit marking a direction disabled.
const disabledFlag = 2

var errMalformed = errors.New("network: malformed record")

// Record is one directed channel announcement as found in a listchannels dump.
type Record struct {
	Source       string `json:"source"`
	Destination  string `json:"destination"`
	ChannelID    string `json:"short_channel_id"`
	Public       bool   `json:"public"`
	Active       bool   `json:"active"`
	ChannelFlags int    `json:"channel_flags"`
	MessageFlags int    `json:"message_flags"`
	Satoshis     int64  `json:"satoshis"`
	BaseFeeMsat  int64  `json:"base_fee_millisatoshi"`
	FeePPM       int64  `json:"fee_per_millionth"`
	HTLCMinMsat  string `json:"htlc_minimum_msat"`
	HTLCMaxMsat  string `json:"htlc_maximum_msat"`
	Delay        int64  `json:"delay"`
}

// Disabled reports whether the disabled bit of ChannelFlags is set.
func (r Record) Disabled() bool {
	return r.ChannelFlags&disabledFlag != 0
}

// Eligible reports whether the record is public, active and not disabled.
func (r Record) Eligible() bool {
	return r.Public && r.Active && !r.Disabled()
}

// parse validates the record and extracts its direction policy and capacity.
func (r Record) parse() (Policy, int64, error) {
	switch {
	case r.Source == "" || r.Destination == "" || r.ChannelID == "":
		return Policy{}, 0, fmt.Errorf("%w: missing identifier", errMalformed)
	case r.Source == r.Destination:
		return Policy{}, 0, fmt.Errorf("%w: self channel", errMalformed)
	case r.Satoshis < 0:
		return Policy{}, 0, fmt.Errorf("%w: negative capacity", errMalformed)
	}
	lo, err := ParseMsat(r.HTLCMinMsat)
	if err != nil {
		return Policy{}, 0, err
	}
	hi, err := ParseMsat(r.HTLCMaxMsat)
	if err != nil {
		return Policy{}, 0, err
	}
	return Policy{
		BaseFeeMsat: r.BaseFeeMsat,
		FeeRatePPM:  r.FeePPM,
		HTLCMinMsat: lo,
		HTLCMaxMsat: hi,
		Delay:       r.Delay,
	}, r.Satoshis, nil
}

// ParseMsat parses a millisatoshi value carried as a string with an optional
// "msat" unit suffix, e.g. "1000msat". The empty string parses as 0.
func ParseMsat(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "msat"))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: bad msat value %q", errMalformed, s)
	}
	return v, nil
}

// FormatMsat renders v in the form ParseMsat accepts.
func FormatMsat(v int64) string {
	return strconv.FormatInt(v, 10) + "msat"
}
