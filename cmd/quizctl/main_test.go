package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizforge/config"
	"github.com/lshigami/quizforge/database"
	"github.com/lshigami/quizforge/internal/controller"
	"github.com/lshigami/quizforge/internal/repository"
	"github.com/lshigami/quizforge/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	gen, err := service.NewQuizGenerator(&config.Config{})
	require.NoError(t, err)

	controller.RegisterValidators()
	router := gin.New()
	controller.NewQuizController(service.NewQuizService(repository.NewQuizRepository(db)), gen).RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

type result struct {
	code int
	out  string
	err  string
}

func quizctl(t *testing.T, api, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), append([]string{"--api", api}, args...), strings.NewReader(stdin), &out, &errOut, false)
	return result{code: code, out: out.String(), err: errOut.String()}
}

func TestPing(t *testing.T) {
	api := newAPI(t)
	r := quizctl(t, api, "", "ping")
	assert.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "is reachable")
}

func TestCreateListShowDelete(t *testing.T) {
	api := newAPI(t)

	script := strings.Join([]string{
		"Capitals",
		"b", "Is Paris the capital of France?",
		"y",
		"c", "Nordic capitals", "Oslo", "Helsinki", "",
		"y",
		"i", "Capital of Peru?",
		"n",
	}, "\n") + "\n"
	r := quizctl(t, api, script, "create")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, `"Capitals" with 3 questions`)

	r = quizctl(t, api, "", "list")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "[1] Capitals (3 questions)")

	r = quizctl(t, api, "", "show", "1")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "( ) True  ( ) False")
	assert.Contains(t, r.out, "[ ] Oslo")
	assert.Contains(t, r.out, "Free-text answer")

	r = quizctl(t, api, "n\n", "delete", "1")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Cancelled.")

	r = quizctl(t, api, "y\n", "delete", "1")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, `Deleted "Capitals"`)

	r = quizctl(t, api, "", "show", "1")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.out, "Quiz not found.")
}

func TestCreateReasksMissingFields(t *testing.T) {
	api := newAPI(t)

	script := strings.Join([]string{
		"   ",
		"i", "",
		"n",
		"Recovered",
		"What is left?",
	}, "\n") + "\n"
	r := quizctl(t, api, script, "create")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "- title: Quiz title is required")
	assert.Contains(t, r.out, "- question 1: Question is required")
	assert.Contains(t, r.out, `"Recovered" with 1 questions`)
}

func TestCreateStopsWhenInputEnds(t *testing.T) {
	r := quizctl(t, newAPI(t), "Half done\n", "create")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "input ended")
}

func TestDeleteWithYesSkipsPrompt(t *testing.T) {
	api := newAPI(t)
	r := quizctl(t, api, "Solo\ni\nOnly question\nn\n", "create")
	require.Equal(t, 0, r.code, r.err)

	r = quizctl(t, api, "", "delete", "--yes", "1")
	assert.Equal(t, 0, r.code, r.err)

	r = quizctl(t, api, "", "delete", "--yes", "1")
	assert.Equal(t, 1, r.code)
}

func TestUsageErrors(t *testing.T) {
	api := newAPI(t)
	assert.Equal(t, 2, quizctl(t, api, "", "frobnicate").code)
	assert.Equal(t, 2, quizctl(t, api, "", "show").code)
	assert.Equal(t, 2, quizctl(t, api, "", "show", "abc").code)
	assert.Equal(t, 2, quizctl(t, api, "", "generate").code)
}

func TestGenerateWithoutKeyFails(t *testing.T) {
	r := quizctl(t, newAPI(t), "", "generate", "--topic", "Rivers")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "503")
}
