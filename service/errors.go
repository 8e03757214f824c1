package service

import "errors"

var (
	// ErrDuplicateEmail means a profile with the given email already exists.
	ErrDuplicateEmail = errors.New("service: email already registered")
	// ErrDuplicateCode means a course with the given code already exists.
	ErrDuplicateCode = errors.New("service: course code already registered")
	// ErrLoginExhausted means no free login could be derived.
	ErrLoginExhausted = errors.New("service: could not derive an available login")
	// ErrMatriculeExhausted means matricule generation kept colliding.
	ErrMatriculeExhausted = errors.New("service: could not generate an available matricule")
	// ErrWrongPassword means the current password check failed.
	ErrWrongPassword = errors.New("service: current password does not match")
)
