package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the credential record backing the account workflow. Pending OTP
// challenges live in Redis, not on this row.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name              string    `bun:"name,notnull"`
	Email             string    `bun:"email,notnull,unique"`
	PasswordHash      string    `bun:"password_hash,notnull"`
	IsAccountVerified bool      `bun:"is_account_verified,notnull,default:false"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt         time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
