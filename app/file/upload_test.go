package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"gomeet/meetup-api/internal"
	"gomeet/meetup-api/internal/model"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Smallest possible valid PNG header so mimetype sniffing sees an image
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)

type fakeStorage struct {
	saved map[string][]byte
}

func (f *fakeStorage) Save(_ context.Context, key string, r io.Reader, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	f.saved[key] = b
	return nil
}

func setupDeps(t *testing.T) (*internal.Deps, *fakeStorage) {
	viper.Set("host.domain", "meetup.test")
	viper.Set("upload.max_size", 5<<20)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.File{}))

	storage := &fakeStorage{}
	return &internal.Deps{DB: db, Storage: storage}, storage
}

func upload(d *internal.Deps, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("requestID", "test")
		c.Set("userID", "alice")
		c.Next()
	})
	r.POST("/files", func(c *gin.Context) { FileUpload(c, d) })

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename)},
		"Content-Type":        {contentType},
	})
	part.Write(content)
	mw.Close()

	req, _ := http.NewRequest("POST", "/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFileUpload(t *testing.T) {
	d, storage := setupDeps(t)

	w := upload(d, "banner.png", "image/png", pngBytes)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.File
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "banner.png", resp.Name)
	assert.True(t, strings.HasSuffix(resp.Path, ".png"))
	assert.Equal(t, "http://meetup.test/files/"+resp.Path, resp.URL)

	// Stored under the generated key, not the original name
	assert.Contains(t, storage.saved, resp.Path)
}

func TestFileUploadRejectsNonImages(t *testing.T) {
	d, _ := setupDeps(t)

	w := upload(d, "notes.txt", "text/plain", []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Spoofed header with non-image content
	w = upload(d, "fake.png", "image/png", []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFileUploadNoFile(t *testing.T) {
	d, _ := setupDeps(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("requestID", "test")
		c.Set("userID", "alice")
		c.Next()
	})
	r.POST("/files", func(c *gin.Context) { FileUpload(c, d) })

	req, _ := http.NewRequest("POST", "/files", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
