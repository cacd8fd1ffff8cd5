// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package schema

// UserVerificationCodeTable represents the 'users.verificationcode' table
type UserVerificationCodeTable struct {
	Table     string
	ID        string
	Email     string
	Code      string
	Purpose   string
	CreatedAt string
}

var UserVerificationCode = UserVerificationCodeTable{
	Table:     "users.verificationcode",
	ID:        "id",
	Email:     "email",
	Code:      "code",
	Purpose:   "purpose",
	CreatedAt: "createdat",
}
