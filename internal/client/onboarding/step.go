package onboarding

import "github.com/atomist-global-seeds/blockstack-browser/internal/common"

// Step is a position in the sign-up flow.
type Step int

const (
	StepEmail Step = iota
	StepEmailVerify
	StepPassword
	StepUsername
	StepHooray
)

var stepNames = map[Step]string{
	StepEmail:       "EMAIL",
	StepEmailVerify: "EMAIL_VERIFY",
	StepPassword:    "PASSWORD",
	StepUsername:    "USERNAME",
	StepHooray:      "HOORAY",
}

var stepSlugs = map[Step]string{
	StepEmailVerify: "verify",
	StepPassword:    "password",
	StepUsername:    "username",
	StepHooray:      "success",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// Slug is the path segment under /sign-up for s. StepEmail has none.
func (s Step) Slug() string {
	return stepSlugs[s]
}

// Path is the route the presentation layer shows for s.
func (s Step) Path() string {
	if slug := s.Slug(); slug != "" {
		return common.SignUpPath + "/" + slug
	}
	return common.SignUpPath
}
