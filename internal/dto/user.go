package dto

import (
	"time"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
)

// RegisterUserRequest creates a user together with their PENDING personal
// account. The account stays unusable until a bank operator validates it.
type RegisterUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	PhoneNumber string `json:"phoneNumber" binding:"required,msisdn"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
}

// UserResponse is the wire view of a user. The password hash never leaves
// the domain layer.
type UserResponse struct {
	UserID      string    `json:"userID"`
	Username    string    `json:"username"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RegisterUserResponse pairs the new user with their pending account.
type RegisterUserResponse struct {
	User    UserResponse    `json:"user"`
	Account AccountResponse `json:"account"`
}

// ToUserResponse converts a domain user to its wire view.
func ToUserResponse(user *domain.User) *UserResponse {
	return &UserResponse{
		UserID:      user.UserID,
		Username:    user.Username,
		PhoneNumber: user.PhoneNumber,
		Email:       user.Email,
		CreatedAt:   user.CreatedAt,
	}
}
