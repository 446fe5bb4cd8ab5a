package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
)

func setupCacheRouter(hits *int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := cache.New(time.Minute, time.Minute)

	r := gin.New()
	r.Use(Cache(store, time.Minute))
	r.GET("/echo", func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"q": c.Query("q")})
	})
	return r
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	// Requests built this way carry no transport-level RequestURI, only a
	// parsed URL, like every request served in the handler tests.
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCache_RepeatRequestIsServedFromCache(t *testing.T) {
	var hits int
	router := setupCacheRouter(&hits)

	first := get(router, "/echo?q=one")
	second := get(router, "/echo?q=one")

	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, hits)
}

func TestCache_DistinctURLsDoNotCollide(t *testing.T) {
	var hits int
	router := setupCacheRouter(&hits)

	one := get(router, "/echo?q=one")
	two := get(router, "/echo?q=two")

	assert.JSONEq(t, `{"q":"one"}`, one.Body.String())
	assert.JSONEq(t, `{"q":"two"}`, two.Body.String())
	assert.Equal(t, 2, hits)
}
