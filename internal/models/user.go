package models

// User is a registered account. TaskIDs lists the ids of the tasks the user
// owns, in creation order.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don’t expose hash
	TaskIDs      []int  `json:"taskIds"`
}

// Identity is the resolved caller of an authenticated request. It lives only
// for the duration of the request; no session is persisted.
type Identity struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}
