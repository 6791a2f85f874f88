package middleware

import (
	"go-reqdesk/internal/common/models"
	"go-reqdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor converts the validated claims on the request into the explicit
// ActingUser value workflow operations take. Returns false when the request
// carries no usable identity.
func Actor(c *fiber.Ctx) (models.ActingUser, bool) {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return models.ActingUser{}, false
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return models.ActingUser{}, false
	}

	// DepartmentID is optional; admins and dispatchers may not belong to one.
	deptID, _ := primitive.ObjectIDFromHex(claims.DepartmentID)

	return models.ActingUser{
		ID:           id,
		Role:         claims.Role,
		DepartmentID: deptID,
	}, true
}
