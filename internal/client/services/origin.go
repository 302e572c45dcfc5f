package services

import (
	"net/url"
	"strings"
)

// Origin is the scheme, host and port the onboarding app is served from.
// Protocol follows the browser convention and carries a trailing colon
// ("http:"); a missing colon is tolerated.
type Origin struct {
	Protocol string
	Host     string
	Port     string
}

// String renders protocol//host[:port]. The port is omitted when empty or
// when it is the default for the scheme.
func (o Origin) String() string {
	proto := o.Protocol
	if !strings.HasSuffix(proto, ":") {
		proto += ":"
	}

	s := proto + "//" + o.Host
	if o.Port != "" && !isDefaultPort(proto, o.Port) {
		s += ":" + o.Port
	}
	return s
}

func isDefaultPort(proto, port string) bool {
	switch proto {
	case "http:":
		return port == "80"
	case "https:":
		return port == "443"
	}
	return false
}

const (
	signUpPath  = "/sign-up"
	seedPath    = "/seed"
	signInPath  = "/sign-in"
	verifiedArg = "verified"
	tokenArg    = "token"
	encryptArg  = "encrypted"
	seedArg     = "seed"
)

// VerificationLink is <origin>/sign-up?verified=<email>, followed by
// &token=<jwt> when token is non-empty.
func VerificationLink(o Origin, email, token string) string {
	q := verifiedArg + "=" + queryEscape(email)
	if token != "" {
		q += "&" + tokenArg + "=" + queryEscape(token)
	}
	return o.String() + signUpPath + "?" + q
}

// RecoveryLink is <origin>/seed?encrypted=<hex>.
func RecoveryLink(o Origin, encrypted string) string {
	return o.String() + seedPath + "?" + encryptArg + "=" + queryEscape(encrypted)
}

// RestoreLink is <origin>/sign-in?seed=<hex>.
func RestoreLink(o Origin, encrypted string) string {
	return o.String() + signInPath + "?" + seedArg + "=" + queryEscape(encrypted)
}

// queryEscape escapes like url.QueryEscape but leaves '@' readable; it is a
// legal query character and the gateway renders these links verbatim.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "%40", "@")
}
