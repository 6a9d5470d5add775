package handlers_test

import (
	"encoding/json"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dlezama/banca_simple_app/internal/apperrors"
	"github.com/dlezama/banca_simple_app/internal/core/domain"
	"github.com/dlezama/banca_simple_app/internal/dto"
)

func (suite *HandlerTestSuite) TestRegister_Success() {
	created := &domain.User{UserID: "u1", Name: "Diego", Email: "diego@x.com", Role: domain.RoleUser}
	suite.mockUsers.On("Register", mock.Anything, mock.MatchedBy(func(req dto.RegisterRequest) bool {
		return req.Email == "diego@x.com" && req.Name == "Diego"
	})).Return(created, nil).Once()

	w := suite.request(http.MethodPost, "/api/auth/register", "",
		dto.RegisterRequest{Name: "Diego", Email: "diego@x.com", Password: "secret"})

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Usuario creado exitosamente", resp.Message)
	suite.Equal("u1", resp.User.ID)
	suite.Nil(resp.User.Balance)

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	})
	suite.Require().NoError(err)
	suite.Equal("u1", claims.Subject)
}

func (suite *HandlerTestSuite) TestRegister_Duplicate() {
	suite.mockUsers.On("Register", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.request(http.MethodPost, "/api/auth/register", "",
		dto.RegisterRequest{Name: "Diego", Email: "diego@x.com", Password: "secret"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("El usuario ya existe", suite.message(w))
}

func (suite *HandlerTestSuite) TestRegister_MissingFields() {
	w := suite.request(http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": "diego@x.com"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockUsers.AssertNotCalled(suite.T(), "Register", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestLogin_Success() {
	user := &domain.User{UserID: "u1", Name: "Diego", Email: "diego@x.com", Role: domain.RoleUser}
	suite.mockUsers.On("Authenticate", mock.Anything, "diego@x.com", "secret").
		Return(user, nil).Once()

	w := suite.request(http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "diego@x.com", Password: "secret"})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Inicio de sesión exitoso", resp.Message)
	suite.NotEmpty(resp.Token)
}

func (suite *HandlerTestSuite) TestLogin_UnknownUser() {
	suite.mockUsers.On("Authenticate", mock.Anything, "nadie@x.com", "secret").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.request(http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "nadie@x.com", Password: "secret"})

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Usuario no encontrado", suite.message(w))
}

func (suite *HandlerTestSuite) TestLogin_WrongPassword() {
	suite.mockUsers.On("Authenticate", mock.Anything, "diego@x.com", "bad").
		Return(nil, apperrors.ErrUnauthorized).Once()

	w := suite.request(http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "diego@x.com", Password: "bad"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Contraseña incorrecta", suite.message(w))
}

func (suite *HandlerTestSuite) TestGoogleLogin_MissingEmail() {
	suite.mockUsers.On("FindOrCreateGoogleUser", mock.Anything, "", "Diego").
		Return(nil, apperrors.ErrValidation).Once()

	w := suite.request(http.MethodPost, "/api/auth/googleLogin", "",
		dto.GoogleLoginRequest{Name: "Diego"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Falta email de Google", suite.message(w))
}

func (suite *HandlerTestSuite) TestGoogleLogin_IncludesBalance() {
	user := &domain.User{
		UserID:  "g1",
		Name:    "Diego",
		Email:   "diego@gmail.com",
		Role:    domain.RoleUser,
		Balance: decimal.NewFromInt(15),
	}
	suite.mockUsers.On("FindOrCreateGoogleUser", mock.Anything, "diego@gmail.com", "Diego").
		Return(user, nil).Once()

	w := suite.request(http.MethodPost, "/api/auth/googleLogin", "",
		dto.GoogleLoginRequest{Email: "diego@gmail.com", Name: "Diego"})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Login Google unificado", resp.Message)
	suite.Require().NotNil(resp.User.Balance)
	suite.True(resp.User.Balance.Equal(decimal.NewFromInt(15)))
}

func (suite *HandlerTestSuite) TestMe_RequiresToken() {
	w := suite.request(http.MethodGet, "/api/auth/me", "", nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestMe_ReturnsUser() {
	suite.expectUser("u1", domain.RoleUser)

	w := suite.request(http.MethodGet, "/api/auth/me", suite.token("u1"), nil)

	suite.Equal(http.StatusOK, w.Code)

	var body struct {
		User dto.UserResponse `json:"user"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("u1", body.User.ID)
	suite.NotContains(w.Body.String(), "password")
}
