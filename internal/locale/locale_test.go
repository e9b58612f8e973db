package locale

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "en", Get("de").Code)
	assert.Equal(t, "ru", Get("ru").Code)
	assert.Equal(t, []string{"en", "ru"}, Codes())
}

func TestCatalogsComplete(t *testing.T) {
	for _, code := range Codes() {
		t.Run(code, func(t *testing.T) {
			v := reflect.ValueOf(*Get(code))
			for i := 0; i < v.NumField(); i++ {
				assert.NotEmpty(t, v.Field(i).String(), "%s.%s", code, v.Type().Field(i).Name)
			}
		})
	}
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "✅ Running", Get("en").StatusText(true))
	assert.Equal(t, "⏸ Stopped", Get("en").StatusText(false))
	assert.Equal(t, "⏸ Остановлен", Get("ru").StatusText(false))
}
