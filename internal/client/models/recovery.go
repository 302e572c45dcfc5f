package models

// RecoveryRecord is one cached ciphertext of a recovery phrase.
//
// IdentityName is not unique: a second identity created under the same name
// is appended as a separate record. The JSON field names are the on-disk
// format of the cache and must not change.
type RecoveryRecord struct {
	IdentityName    string `json:"username"`
	EncryptedPhrase string `json:"encryptedSeed"`
}
