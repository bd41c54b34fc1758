package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"truckrecruit/internal/errors"
)

func TestInputValidator_ValidatePassword(t *testing.T) {
	v := NewInputValidator()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "strong", password: "Haul4Ever", wantErr: false},
		{name: "too short", password: "Ab1", wantErr: true},
		{name: "no upper", password: "haul4ever", wantErr: true},
		{name: "no digit", password: "HaulForever", wantErr: true},
		{name: "too long", password: strings.Repeat("Aa1", 50), wantErr: true},
		{name: "common", password: "Password123", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePassword(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInputValidator_ValidateName(t *testing.T) {
	v := NewInputValidator()
	assert.NoError(t, v.ValidateName("Mary O'Neil-Smith"))
	assert.Error(t, v.ValidateName("A"))
	assert.Error(t, v.ValidateName("Robert'); DROP TABLE"))
}

func TestInputValidator_ValidatePhone(t *testing.T) {
	v := NewInputValidator()
	assert.NoError(t, v.ValidatePhone(""))
	assert.NoError(t, v.ValidatePhone("+1 (555) 123-4567"))
	assert.Error(t, v.ValidatePhone("call me maybe"))
}

func TestInputValidator_Sanitize(t *testing.T) {
	v := NewInputValidator()
	tests := []struct {
		in   string
		want string
	}{
		{in: "  hello  ", want: "hello"},
		{in: "<script>alert(1)</script>", want: "scriptalert(1)/script"},
		{in: "click JavaScript:steal()", want: "click steal()"},
		{in: `img onerror=boom`, want: "img boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.Sanitize(tt.in))
	}
	assert.Len(t, v.Sanitize(strings.Repeat("a", 3000)), maxSanitizedLength)
}
