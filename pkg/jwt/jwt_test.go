package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_SignVerify(t *testing.T) {
	s, err := NewSigner("secreto", "parafiscales-api", time.Hour)
	require.NoError(t, err)

	tok, exp, err := s.Sign("u-1", "ana@esap.gov.co", "analista")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	c, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UserID())
	assert.Equal(t, "ana@esap.gov.co", c.Email)
	assert.Equal(t, "analista", c.Role)
}

func TestSigner_Rechazos(t *testing.T) {
	s, err := NewSigner("secreto", "parafiscales-api", time.Hour)
	require.NoError(t, err)
	tok, _, err := s.Sign("u-1", "", "admin")
	require.NoError(t, err)

	otro, _ := NewSigner("otro-secreto", "parafiscales-api", time.Hour)
	_, err = otro.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	otroEmisor, _ := NewSigner("secreto", "otra-api", time.Hour)
	_, err = otroEmisor.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	viejo, _, err := s.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).Sign("u-1", "", "admin")
	require.NoError(t, err)
	_, err = s.Verify(viejo)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Verify("no.es.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSigner_Validaciones(t *testing.T) {
	_, err := NewSigner("", "x", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
	_, err = NewSigner("s", "x", 0)
	assert.Error(t, err)
}
