package http

import (
	"errors"
	stdhttp "net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trivshopy/catalog-backend/pkg/e"
)

func TestParsePriceToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{name: "целые рубли", input: "600", want: 60000},
		{name: "рубли и копейки", input: "599.99", want: 59999},
		{name: "одна цифра после точки", input: "10.5", want: 1050},
		{name: "ноль", input: "0", want: 0},
		{name: "пустая строка", input: "", wantErr: e.ErrInvalidPrice},
		{name: "не число", input: "abc", wantErr: e.ErrInvalidPrice},
		{name: "отрицательная", input: "-5", wantErr: e.ErrInvalidPrice},
		{name: "три знака после точки", input: "10.999", wantErr: e.ErrPricePrecision},
		{name: "за пределами потолка", input: "100000000001", wantErr: e.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePriceToCents(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVariantsField(t *testing.T) {
	t.Run("пустая строка — нет вариантов", func(t *testing.T) {
		variants, err := parseVariantsField("")
		require.NoError(t, err)
		assert.Nil(t, variants)
	})

	t.Run("валидный JSON", func(t *testing.T) {
		raw := `[{"color":"red","size":"M","price":"499.90","stock":3},{"color":"blue","size":"L"}]`

		variants, err := parseVariantsField(raw)
		require.NoError(t, err)
		require.Len(t, variants, 2)

		assert.Equal(t, "red", variants[0].Color)
		require.NotNil(t, variants[0].Price)
		assert.Equal(t, int64(49990), *variants[0].Price)
		require.NotNil(t, variants[0].Stock)
		assert.Equal(t, int64(3), *variants[0].Stock)

		// Поля без значения остаются nil и наследуются позже
		assert.Nil(t, variants[1].Price)
		assert.Nil(t, variants[1].Stock)
		assert.Nil(t, variants[1].Image)
	})

	t.Run("битый JSON", func(t *testing.T) {
		_, err := parseVariantsField(`[{"color": "red"`)
		require.ErrorIs(t, err, e.ErrInvalidVariantsJSON)
	})

	t.Run("некорректная цена варианта", func(t *testing.T) {
		_, err := parseVariantsField(`[{"color":"red","size":"M","price":"-1"}]`)
		require.ErrorIs(t, err, e.ErrInvalidPrice)
	})

	t.Run("отрицательный остаток", func(t *testing.T) {
		_, err := parseVariantsField(`[{"color":"red","size":"M","stock":-2}]`)
		require.ErrorIs(t, err, e.ErrInvalidStock)
	})
}

func TestParseQnaField(t *testing.T) {
	t.Run("пустая строка", func(t *testing.T) {
		qna, err := parseQnaField("")
		require.NoError(t, err)
		assert.Nil(t, qna)
	})

	t.Run("валидный JSON", func(t *testing.T) {
		qna, err := parseQnaField(`[{"question":"Размерная сетка?","answer":"Соответствует стандартной"}]`)
		require.NoError(t, err)
		require.Len(t, qna, 1)
		assert.Equal(t, "Размерная сетка?", qna[0].Question)
	})

	t.Run("битый JSON", func(t *testing.T) {
		_, err := parseQnaField(`{"question"`)
		require.ErrorIs(t, err, e.ErrInvalidQnaJSON)
	})
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "ошибка валидации", err: e.ErrInvalidPrice, code: stdhttp.StatusBadRequest},
		{name: "обёрнутая ошибка валидации", err: e.Wrap("basePrice: -1", e.ErrInvalidPrice), code: stdhttp.StatusBadRequest},
		{name: "нет изображения варианта", err: e.ErrVariantImageRequired, code: stdhttp.StatusBadRequest},
		{name: "расхождение количества изображений", err: e.ErrImageCountMismatch, code: stdhttp.StatusBadRequest},
		{name: "товар не найден", err: e.ErrProductNotFound, code: stdhttp.StatusNotFound},
		{name: "неизвестная ошибка", err: errors.New("pg connection lost"), code: stdhttp.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := ToHTTPResponse(tt.err)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestToHTTPResponse_HidesInternalDetails(t *testing.T) {
	_, msg := ToHTTPResponse(errors.New("dial tcp 10.0.0.5:5432: connect refused"))
	assert.Equal(t, e.ErrInternalServerError.Error(), msg)
}
