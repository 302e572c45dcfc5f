package common

// RecoveryCacheKey is the key-value store key holding the JSON list of
// encrypted recovery phrases.
const RecoveryCacheKey = "encryptedSeeds"

// SignUpPath is the path prefix the wizard navigates under.
const SignUpPath = "/sign-up"
