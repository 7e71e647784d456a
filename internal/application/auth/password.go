package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/produksi-api/internal/domain"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 6

// HashPassword valida la longitud y devuelve el hash bcrypt de plain.
func HashPassword(plain string) (string, error) {
	if len(plain) < MinPasswordLength {
		return "", domain.NewValidationError("password", "la contraseña debe tener al menos 6 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compara plain con el hash; cualquier diferencia es ErrUnauthorized.
func CheckPassword(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrHashTooShort) {
			return domain.ErrUnauthorized
		}
		return err
	}
	return nil
}

func confirmMatches(password, confirm string) error {
	if password != confirm {
		return domain.NewValidationError("confirm_password", "la confirmación no coincide")
	}
	return nil
}
