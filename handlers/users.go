package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/weavewear/weavewear-backend-go/database"
	"github.com/weavewear/weavewear-backend-go/models"
	"github.com/weavewear/weavewear-backend-go/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type UpdateEmailRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type AddressRequest struct {
	Name          string `json:"name" validate:"required"`
	StreetAddress string `json:"streetAddress" validate:"required"`
	City          string `json:"city" validate:"required"`
	State         string `json:"state" validate:"required"`
	PostalCode    string `json:"postalCode" validate:"required"`
	Country       string `json:"country" validate:"required"`
	IsDefault     bool   `json:"isDefault"`
}

type PaymentMethodRequest struct {
	Type        string `json:"type" validate:"required"`
	CardBrand   string `json:"cardBrand"`
	LastFour    string `json:"lastFour"`
	ExpiryMonth int    `json:"expiryMonth"`
	ExpiryYear  int    `json:"expiryYear"`
	IsDefault   bool   `json:"isDefault"`
}

func (r AddressRequest) toAddress() models.Address {
	return models.Address{
		Name:          r.Name,
		StreetAddress: r.StreetAddress,
		City:          r.City,
		State:         r.State,
		PostalCode:    r.PostalCode,
		Country:       r.Country,
		IsDefault:     r.IsDefault,
	}
}

// currentUser loads the authenticated user's document.
func currentUser(c echo.Context) (*models.User, error) {
	userID := c.Get("userID").(primitive.ObjectID)
	var user models.User
	err := database.DB.Collection("users").FindOne(
		c.Request().Context(),
		bson.M{"_id": userID},
	).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func saveAddresses(c echo.Context, user *models.User) error {
	_, err := database.DB.Collection("users").UpdateOne(
		c.Request().Context(),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"addresses": user.Addresses}},
	)
	return err
}

func savePaymentMethods(c echo.Context, user *models.User) error {
	_, err := database.DB.Collection("users").UpdateOne(
		c.Request().Context(),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"paymentMethods": user.PaymentMethods}},
	)
	return err
}

// GetProfile returns the user's profile without the password hash.
func GetProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}
	return c.JSON(http.StatusOK, user)
}

func UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}

	userID := c.Get("userID").(primitive.ObjectID)
	var user models.User
	err := database.DB.Collection("users").FindOneAndUpdate(
		c.Request().Context(),
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"name": req.Name, "phone": req.Phone}},
	).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	user.Name = req.Name
	user.Phone = req.Phone
	return c.JSON(http.StatusOK, user)
}

// UpdateEmail changes the login email after re-verifying the password and
// re-issues the session token.
func UpdateEmail(c echo.Context) error {
	var req UpdateEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	var existing models.User
	err = database.DB.Collection("users").FindOne(
		c.Request().Context(),
		bson.M{"email": req.Email},
	).Decode(&existing)
	if err == nil && existing.ID != user.ID {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Email already in use"})
	}

	// Google-only accounts have no hash to verify
	if user.Password != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid password"})
		}
	}

	_, err = database.DB.Collection("users").UpdateOne(
		c.Request().Context(),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"email": req.Email}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	user.Email = req.Email

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  userResponse(*user),
	})
}

func UpdatePassword(c echo.Context) error {
	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	if user.Password != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid current password"})
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	_, err = database.DB.Collection("users").UpdateOne(
		c.Request().Context(),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"password": string(hashedPassword)}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// DeleteAccount removes the user and the documents scoped to them.
func DeleteAccount(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	err := database.WithTransaction(c.Request().Context(), func(sc mongo.SessionContext) error {
		if _, err := database.DB.Collection("users").DeleteOne(sc, bson.M{"_id": userID}); err != nil {
			return err
		}
		if _, err := database.DB.Collection("carts").DeleteOne(sc, bson.M{"user": userID}); err != nil {
			return err
		}
		_, err := database.DB.Collection("wishlists").DeleteOne(sc, bson.M{"user": userID})
		return err
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}

// ==== ADDRESSES ====

func GetAddresses(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}
	return c.JSON(http.StatusOK, user.Addresses)
}

func AddAddress(c echo.Context) error {
	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	user.AddAddress(req.toAddress())

	if err := saveAddresses(c, user); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, user.Addresses)
}

func UpdateAddress(c echo.Context) error {
	addressID, err := primitive.ObjectIDFromHex(c.Param("addressId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid address ID"})
	}

	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	if err := user.UpdateAddress(addressID, req.toAddress()); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Address not found"})
	}

	if err := saveAddresses(c, user); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, user.Addresses)
}

func DeleteAddress(c echo.Context) error {
	addressID, err := primitive.ObjectIDFromHex(c.Param("addressId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid address ID"})
	}

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	if err := user.DeleteAddress(addressID); err != nil {
		if errors.Is(err, models.ErrDeleteDefault) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Cannot delete default address"})
		}
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Address not found"})
	}

	if err := saveAddresses(c, user); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, user.Addresses)
}

func SetDefaultAddress(c echo.Context) error {
	addressID, err := primitive.ObjectIDFromHex(c.Param("addressId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid address ID"})
	}

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	if err := user.SetDefaultAddress(addressID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Address not found"})
	}

	if err := saveAddresses(c, user); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, user.Addresses)
}

// ==== PAYMENT METHODS ====

func GetPaymentMethods(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}
	return c.JSON(http.StatusOK, user.PaymentMethods)
}

func AddPaymentMethod(c echo.Context) error {
	var req PaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	user.AddPaymentMethod(models.PaymentMethod{
		Type:        req.Type,
		CardBrand:   req.CardBrand,
		LastFour:    req.LastFour,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		IsDefault:   req.IsDefault,
	})

	if err := savePaymentMethods(c, user); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, user.PaymentMethods)
}

func DeletePaymentMethod(c echo.Context) error {
	paymentID, err := primitive.ObjectIDFromHex(c.Param("paymentId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid payment method ID"})
	}

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	if err := user.DeletePaymentMethod(paymentID); err != nil {
		if errors.Is(err, models.ErrDeleteDefault) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Cannot delete default payment method"})
		}
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Payment method not found"})
	}

	if err := savePaymentMethods(c, user); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, user.PaymentMethods)
}

func SetDefaultPaymentMethod(c echo.Context) error {
	paymentID, err := primitive.ObjectIDFromHex(c.Param("paymentId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid payment method ID"})
	}

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	if err := user.SetDefaultPaymentMethod(paymentID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Payment method not found"})
	}

	if err := savePaymentMethods(c, user); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, user.PaymentMethods)
}
