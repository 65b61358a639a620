package request_cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		params Params
		want   string
	}{
		{"no params", "folders", Params{}, "folders:"},
		{"single param", "folders", Params{"parentId": "root"}, "folders:parentId=root"},
		{"sorted params", "documents", Params{"q": "tax", "folderId": "A", "mimeType": "pdf"}, "documents:folderId=A&mimeType=pdf&q=tax"},
		{"coerced values", "documents", Params{"limit": Param(10), "recent": Param(true)}, "documents:limit=10&recent=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateKey(tt.prefix, tt.params))
		})
	}
}

// ключ не зависит от порядка заполнения параметров
func TestGenerateKeyStability(t *testing.T) {
	p1 := Params{}
	p1["folderId"] = "A"
	p1["status"] = "active"
	p1["mimeType"] = "application/pdf"

	p2 := Params{}
	p2["mimeType"] = "application/pdf"
	p2["folderId"] = "A"
	p2["status"] = "active"

	for i := 0; i < 20; i++ {
		assert.Equal(t, GenerateKey("documents", p1), GenerateKey("documents", p2))
	}
}

func TestParamCoercion(t *testing.T) {
	assert.Equal(t, "42", Param(42))
	assert.Equal(t, "7", Param(int64(7)))
	assert.Equal(t, "1.5", Param(1.5))
	assert.Equal(t, "false", Param(false))
	assert.Equal(t, "x", Param("x"))
}

func TestKeyHasParam(t *testing.T) {
	key := GenerateKey("documents", Params{"folderId": "A", "q": "foo"})

	assert.True(t, KeyHasParam(key, "documents", "folderId", "A"))
	assert.False(t, KeyHasParam(key, "documents", "folderId", "B"))
	assert.False(t, KeyHasParam(key, "folders", "folderId", "A"))
	assert.False(t, KeyHasParam("documents:A", "documents", "folderId", "A"))
}
