package models

// ProfilePatch lists the profile fields to change. Nil fields stay as they are.
type ProfilePatch struct {
	Email        *string
	PasswordHash []byte
	Username     *string
	FullName     *string
	Address      *string
}

func (p ProfilePatch) IsEmpty() bool {
	return p.Email == nil && p.PasswordHash == nil && p.Username == nil && p.FullName == nil && p.Address == nil
}
