package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/minsu-lee/agenda-api/internal/cognito"
	"github.com/minsu-lee/agenda-api/internal/repository"
)

// AuthService is the auth collaborator: it fronts Cognito and keeps the
// owner table in step with successful sign-ins.
type AuthService struct {
	cognitoClient cognito.Client
	ownerRepo     repository.OwnerRepository
}

func NewAuthService(cognitoClient cognito.Client, ownerRepo repository.OwnerRepository) *AuthService {
	return &AuthService{
		cognitoClient: cognitoClient,
		ownerRepo:     ownerRepo,
	}
}

// --- Input/Output types ---

type SignUpInput struct {
	Email    string
	Password string
}

type SignUpOutput struct {
	OwnerSub     string `json:"owner_sub"`
	Confirmed    bool   `json:"confirmed"`
	CodeDelivery string `json:"code_delivery"`
}

type ConfirmSignUpInput struct {
	Email string
	Code  string
}

type ResendCodeInput struct {
	Email string
}

type SignInInput struct {
	Email    string
	Password string
}

type SignInOutput struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int32  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

type RefreshInput struct {
	Email        string
	RefreshToken string
}

type RefreshOutput struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int32  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type ResetPasswordInput struct {
	Email string
}

type ConfirmResetPasswordInput struct {
	Email       string
	Code        string
	NewPassword string
}

type UpdatePasswordInput struct {
	AccessToken      string
	PreviousPassword string
	NewPassword      string
}

type SignOutInput struct {
	AccessToken string
}

// --- Service methods ---

func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (SignUpOutput, error) {
	if input.Email == "" {
		return SignUpOutput{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.Password == "" {
		return SignUpOutput{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	out, err := s.cognitoClient.SignUp(ctx, cognito.SignUpInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return SignUpOutput{}, err
	}

	return SignUpOutput{
		OwnerSub:     out.UserSub,
		Confirmed:    out.Confirmed,
		CodeDelivery: out.CodeDelivery,
	}, nil
}

func (s *AuthService) ConfirmSignUp(ctx context.Context, input ConfirmSignUpInput) error {
	if input.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	return s.cognitoClient.ConfirmSignUp(ctx, cognito.ConfirmSignUpInput{
		Email: input.Email,
		Code:  input.Code,
	})
}

func (s *AuthService) ResendCode(ctx context.Context, input ResendCodeInput) error {
	if input.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	return s.cognitoClient.ResendConfirmationCode(ctx, cognito.ResendCodeInput{
		Email: input.Email,
	})
}

// SignIn authenticates against Cognito and ensures an owner row exists for
// the authenticated sub.
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (SignInOutput, error) {
	if input.Email == "" {
		return SignInOutput{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.Password == "" {
		return SignInOutput{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	authOut, err := s.cognitoClient.SignIn(ctx, cognito.SignInInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return SignInOutput{}, err
	}

	// The token was just issued by Cognito over TLS; decoding the payload
	// without signature verification is sufficient here.
	sub, err := extractSub(authOut.IDToken)
	if err != nil {
		return SignInOutput{}, fmt.Errorf("failed to extract sub from id token: %w", err)
	}

	if _, err := s.ownerRepo.GetOrCreate(ctx, sub, input.Email); err != nil {
		return SignInOutput{}, fmt.Errorf("failed to get or create owner: %w", err)
	}

	return SignInOutput{
		IDToken:      authOut.IDToken,
		AccessToken:  authOut.AccessToken,
		RefreshToken: authOut.RefreshToken,
		ExpiresIn:    authOut.ExpiresIn,
		TokenType:    authOut.TokenType,
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (RefreshOutput, error) {
	if input.Email == "" {
		return RefreshOutput{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.RefreshToken == "" {
		return RefreshOutput{}, fmt.Errorf("%w: refresh_token is required", ErrInvalidInput)
	}

	authOut, err := s.cognitoClient.RefreshTokens(ctx, cognito.RefreshInput{
		Email:        input.Email,
		RefreshToken: input.RefreshToken,
	})
	if err != nil {
		return RefreshOutput{}, err
	}

	return RefreshOutput{
		IDToken:     authOut.IDToken,
		AccessToken: authOut.AccessToken,
		ExpiresIn:   authOut.ExpiresIn,
		TokenType:   authOut.TokenType,
	}, nil
}

// ResetPassword starts the password-recovery flow: Cognito emails a
// confirmation code to the owner.
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if input.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	return s.cognitoClient.ForgotPassword(ctx, cognito.ForgotPasswordInput{
		Email: input.Email,
	})
}

func (s *AuthService) ConfirmResetPassword(ctx context.Context, input ConfirmResetPasswordInput) error {
	if input.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	if input.NewPassword == "" {
		return fmt.Errorf("%w: new_password is required", ErrInvalidInput)
	}

	return s.cognitoClient.ConfirmForgotPassword(ctx, cognito.ConfirmForgotPasswordInput{
		Email:       input.Email,
		Code:        input.Code,
		NewPassword: input.NewPassword,
	})
}

func (s *AuthService) UpdatePassword(ctx context.Context, input UpdatePasswordInput) error {
	if input.AccessToken == "" {
		return fmt.Errorf("%w: access_token is required", ErrInvalidInput)
	}
	if input.PreviousPassword == "" {
		return fmt.Errorf("%w: previous_password is required", ErrInvalidInput)
	}
	if input.NewPassword == "" {
		return fmt.Errorf("%w: new_password is required", ErrInvalidInput)
	}

	return s.cognitoClient.ChangePassword(ctx, cognito.ChangePasswordInput{
		AccessToken:      input.AccessToken,
		PreviousPassword: input.PreviousPassword,
		NewPassword:      input.NewPassword,
	})
}

func (s *AuthService) SignOut(ctx context.Context, input SignOutInput) error {
	if input.AccessToken == "" {
		return fmt.Errorf("%w: access_token is required", ErrInvalidInput)
	}

	return s.cognitoClient.GlobalSignOut(ctx, cognito.GlobalSignOutInput{
		AccessToken: input.AccessToken,
	})
}

// extractSub decodes the JWT payload and pulls out the "sub" claim.
func extractSub(idToken string) (string, error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid JWT format")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("failed to decode JWT payload: %w", err)
	}

	var claims struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", fmt.Errorf("failed to parse JWT claims: %w", err)
	}
	if claims.Sub == "" {
		return "", fmt.Errorf("sub claim not found in JWT")
	}

	return claims.Sub, nil
}
