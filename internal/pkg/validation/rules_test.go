package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Name  string  `json:"nombre" validate:"required,notblank"`
	Phone *string `json:"telefono" validate:"omitempty,phone"`
}

func TestIsPhone(t *testing.T) {
	for _, ok := range []string{"4421234567", "+52 442 123 4567", "(442) 123-4567"} {
		assert.True(t, IsPhone(ok), ok)
	}
	for _, bad := range []string{"", "12", "phone", "442-123-456a", "+"} {
		assert.False(t, IsPhone(bad), bad)
	}
}

func TestIsPhone_LengthBoundary(t *testing.T) {
	longest := "+1234567890123456789"
	require.Len(t, longest, PhoneMaxLength)
	assert.True(t, IsPhone(longest))
	assert.True(t, IsPhone("12345678901234567890"))

	assert.False(t, IsPhone("+12345678901234567890"))
	assert.False(t, IsPhone("123456789012345678901"))
}

func TestRegister_CustomTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	phone := "4421234567"
	assert.NoError(t, v.Struct(contact{Name: "Ana", Phone: &phone}))
	assert.NoError(t, v.Struct(contact{Name: "Ana"}))

	err := v.Struct(contact{Name: "   "})
	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "nombre", fieldErrs[0].Field())
	assert.Equal(t, "notblank", fieldErrs[0].Tag())

	bad := "not a phone"
	err = v.Struct(contact{Name: "Ana", Phone: &bad})
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "telefono", fieldErrs[0].Field())
}
