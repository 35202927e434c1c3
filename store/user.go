package store

// User is a registered dashboard user. PasswordHash is a bcrypt hash.
type User struct {
	ID           int32
	Username     string
	Nickname     string
	PasswordHash string
	CreatedTs    int64
	UpdatedTs    int64
}

type FindUser struct {
	ID       *int32
	Username *string
}

type UpdateUser struct {
	ID           int32
	Nickname     *string
	PasswordHash *string
	UpdatedTs    *int64
}

type DeleteUser struct {
	ID int32
}
