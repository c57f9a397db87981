package model

import "time"

// OperatorSession is the payload stored against a session token.
type OperatorSession struct {
	Operator  string    `json:"operator"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
