package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/weavewear/weavewear-backend-go/config"
	"github.com/weavewear/weavewear-backend-go/database"
	"github.com/weavewear/weavewear-backend-go/models"
	"github.com/weavewear/weavewear-backend-go/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleAuthRequest struct {
	TokenID string `json:"tokenId" validate:"required"`
}

func userResponse(user models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":             user.ID.Hex(),
		"name":           user.Name,
		"email":          user.Email,
		"profilePicture": user.ProfilePicture,
	}
}

// createUserWithDefaults inserts the user along with an empty cart and wishlist
// inside one transaction.
func createUserWithDefaults(c echo.Context, user models.User) error {
	return database.WithTransaction(c.Request().Context(), func(sc mongo.SessionContext) error {
		if _, err := database.DB.Collection("users").InsertOne(sc, user); err != nil {
			return err
		}

		cart := models.Cart{
			ID:        primitive.NewObjectID(),
			User:      user.ID,
			Items:     []models.CartItem{},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if _, err := database.DB.Collection("carts").InsertOne(sc, cart); err != nil {
			return err
		}

		wishlist := models.Wishlist{
			ID:        primitive.NewObjectID(),
			User:      user.ID,
			Products:  []primitive.ObjectID{},
			DateAdded: time.Now(),
		}
		_, err := database.DB.Collection("wishlists").InsertOne(sc, wishlist)
		return err
	})
}

// Register handles email/password signup.
func Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := database.DB.Collection("users").FindOne(
		c.Request().Context(),
		bson.M{"email": req.Email},
	).Err()
	if err == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "User already exists"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	user := models.User{
		ID:             primitive.NewObjectID(),
		Name:           req.Name,
		Email:          req.Email,
		Password:       string(hashedPassword),
		Addresses:      []models.Address{},
		PaymentMethods: []models.PaymentMethod{},
		Created:        time.Now(),
	}

	if err := createUserWithDefaults(c, user); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  userResponse(user),
	})
}

// Login handles email/password login.
func Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var user models.User
	err := database.DB.Collection("users").FindOne(
		c.Request().Context(),
		bson.M{"email": req.Email},
	).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid credentials"})
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  userResponse(user),
	})
}

// GoogleAuth verifies a Google ID token and signs the user in, creating the
// account (with empty cart and wishlist) on first sign-in.
func GoogleAuth(c echo.Context) error {
	var req GoogleAuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	payload, err := idtoken.Validate(c.Request().Context(), req.TokenID, config.GetEnv("GOOGLE_CLIENT_ID", ""))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid Google token"})
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	googleID := payload.Subject

	var user models.User
	err = database.DB.Collection("users").FindOne(
		c.Request().Context(),
		bson.M{"email": email},
	).Decode(&user)

	if err == mongo.ErrNoDocuments {
		user = models.User{
			ID:             primitive.NewObjectID(),
			Name:           name,
			Email:          email,
			GoogleID:       googleID,
			ProfilePicture: picture,
			Addresses:      []models.Address{},
			PaymentMethods: []models.PaymentMethod{},
			Created:        time.Now(),
		}
		if err := createUserWithDefaults(c, user); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
		}
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	} else if user.GoogleID == "" {
		// Existing password account using Google for the first time
		_, err = database.DB.Collection("users").UpdateOne(
			c.Request().Context(),
			bson.M{"_id": user.ID},
			bson.M{"$set": bson.M{"googleId": googleID, "profilePicture": picture}},
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
		}
		user.GoogleID = googleID
		user.ProfilePicture = picture
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  userResponse(user),
	})
}
