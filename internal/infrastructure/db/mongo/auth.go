package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

const collectionCredentials = "credentials"

const authEventBuffer = 16

type credentialDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

// AuthService implements the backend auth subsystem: credential storage,
// token minting and verification, and the auth-state change stream.
type AuthService struct {
	col       *mongo.Collection
	jwtSecret string
	tokenTTL  time.Duration
	events    chan ports.AuthEvent
	log       zerolog.Logger
}

var _ ports.AuthGateway = (*AuthService)(nil)

func NewAuthService(db *mongo.Database, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		col:       db.Collection(collectionCredentials),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		events:    make(chan ports.AuthEvent, authEventBuffer),
		log:       log,
	}
}

// SignUp registers a new credential and returns the generated user id.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (string, error) {
	if email == "" || len(password) < 6 {
		return "", domain.ErrInvalidCredentials
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := s.col.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return "", domain.ErrUserExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	doc := credentialDoc{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return "", err
	}

	s.log.Info().Str("email", email).Msg("credential registered")
	return doc.ID, nil
}

// SignIn verifies the credential, mints a session token, and emits
// SIGNED_IN on the event stream.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*ports.AuthSession, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	findCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc credentialDoc
	if err := s.col.FindOne(findCtx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	sess, err := s.mintSession(doc.ID, doc.Email)
	if err != nil {
		return nil, err
	}

	s.emit(ports.AuthEvent{Type: ports.AuthSignedIn, Session: sess})
	return sess, nil
}

// SignOut emits SIGNED_OUT. Tokens are stateless, so there is nothing to
// revoke server-side; expiry plus the local purge bound the damage of an
// abandoned session.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	s.emit(ports.AuthEvent{Type: ports.AuthSignedOut})
	return nil
}

// CurrentSession is the strict identity check: verify the token signature
// and expiry, then confirm the credential still exists.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*ports.AuthSession, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	userID, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if userID == "" {
		return nil, domain.ErrInvalidCredentials
	}

	findCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := s.col.FindOne(findCtx, bson.M{"_id": userID}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}
	return &ports.AuthSession{UserID: userID, Email: email, Token: token, ExpiresAt: expiresAt}, nil
}

// EmitInitialSession pushes the INITIAL_SESSION event observed at startup.
func (s *AuthService) EmitInitialSession(session *ports.AuthSession) {
	s.emit(ports.AuthEvent{Type: ports.AuthInitialSession, Session: session})
}

// Events returns the auth-state change stream.
func (s *AuthService) Events() <-chan ports.AuthEvent {
	return s.events
}

func (s *AuthService) mintSession(userID, email string) (*ports.AuthSession, error) {
	expiresAt := time.Now().Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}
	return &ports.AuthSession{UserID: userID, Email: email, Token: token, ExpiresAt: expiresAt}, nil
}

// emit never blocks: if the consumer has fallen far enough behind to fill
// the buffer, the event is dropped and logged.
func (s *AuthService) emit(ev ports.AuthEvent) {
	select {
	case s.events <- ev:
	default:
		s.log.Warn().Str("type", string(ev.Type)).Msg("auth event dropped, stream buffer full")
	}
}
