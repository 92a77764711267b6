package probe

import (
	"net/url"
	"strings"

	"github.com/DOVA00/checking-links/internal/model"
)

const (
	maxLabelLength = 63
	minTLDLength   = 2
	maxTLDLength   = 6
)

// CheckHTTPS reports whether the scheme of rawURL is exactly https.
func (p *Prober) CheckHTTPS(rawURL string) model.Outcome {
	u, err := url.Parse(rawURL)
	if err != nil {
		return model.Failed(model.CheckHTTPS, err.Error())
	}
	return model.Ok(u.Scheme == "https")
}

// ValidateDomainSyntax reports whether the host of rawURL is a dotted
// hostname whose labels are 1-63 letters, digits or hyphens (no leading or
// trailing hyphen) and whose last label is 2-6 letters.
func (p *Prober) ValidateDomainSyntax(rawURL string) model.Outcome {
	u, err := url.Parse(rawURL)
	if err != nil {
		return model.Failed(model.CheckValidDomain, err.Error())
	}
	return model.Ok(ValidHostname(u.Hostname()))
}

// DomainAgeMonths always reports an unknown age. No WHOIS source is wired
// in, and scoring treats the -1 sentinel as "no bonus".
func (p *Prober) DomainAgeMonths(_ string) model.Outcome {
	return model.Unknown(model.CheckAgeMonths, "domain age lookup not available")
}

// ValidHostname applies the hostname grammar used by ValidateDomainSyntax.
func ValidHostname(host string) bool {
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}

	tld := labels[len(labels)-1]
	if len(tld) < minTLDLength || len(tld) > maxTLDLength || !allLetters(tld) {
		return false
	}

	for _, label := range labels[:len(labels)-1] {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > maxLabelLength {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !isLetter(c) && !isDigit(c) && c != '-' {
			return false
		}
	}
	return true
}

func allLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
