package service

import "github.com/pkg/errors"

var (
	ErrNotFound       = errors.New("documento no encontrado")
	ErrBadCredentials = errors.New("Usuario o contraseña incorrectos.")
	ErrNotVerified    = errors.New("Tu cuenta aún no ha sido verificada por un administrador.")
	ErrEmailTaken     = errors.New("El correo electrónico ya está registrado.")
)
