package logic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Lila-pv/agente-ia-demo/config"
	"github.com/Lila-pv/agente-ia-demo/dao"
	"github.com/Lila-pv/agente-ia-demo/models"
	"github.com/Lila-pv/agente-ia-demo/pkg"
)

const fallback = "Error: could not get a response from the AI."

func setTestConfig(t *testing.T) {
	t.Helper()
	config.GlobalConfig = config.Config{}
	config.GlobalConfig.LLM.Model = "test-model"
	config.GlobalConfig.LLM.SystemPrompt = "sys"
	config.GlobalConfig.LLM.FallbackResponse = fallback
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ConversationTurn{}))
	return db
}

// chatStub is a canned inference provider that counts how often it is hit.
func chatStub(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func completionBody(content string) string {
	return `{"choices": [{"index": 0, "message": {"role": "assistant", "content": "` + content + `"}, "finish_reason": "stop"}]}`
}

func newLogic(t *testing.T, db *gorm.DB, serverURL string) *MessageLogic {
	t.Helper()
	chatClient := pkg.NewChatClient("test-key", serverURL, 2*time.Second)
	return NewMessageLogic(dao.NewTurnDAO(db), chatClient, zap.NewNop())
}

func countTurns(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.ConversationTurn{}).Count(&count).Error)
	return count
}

func TestProcessMessage_Success(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	server, calls := chatStub(t, http.StatusOK, completionBody("generated reply"))
	l := newLogic(t, db, server.URL)

	reply, err := l.ProcessMessage(context.Background(), "user-1", "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "generated reply", reply)
	assert.EqualValues(t, 1, calls.Load())

	var turn models.ConversationTurn
	require.NoError(t, db.First(&turn).Error)
	assert.Equal(t, "user-1", turn.UserID)
	assert.Equal(t, "hello", turn.UserMessage, "message is stored trimmed")
	assert.Equal(t, "generated reply", turn.AgentResponse)
	assert.EqualValues(t, 1, countTurns(t, db))
}

func TestProcessMessage_EmptyMessage(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	server, calls := chatStub(t, http.StatusOK, completionBody("never used"))
	l := newLogic(t, db, server.URL)

	for _, input := range []string{"", "   ", "\n\t "} {
		_, err := l.ProcessMessage(context.Background(), "user-1", input)
		assert.ErrorIs(t, err, ErrEmptyMessage, "input %q", input)
	}

	assert.EqualValues(t, 0, calls.Load(), "no inference call for invalid input")
	assert.EqualValues(t, 0, countTurns(t, db))
}

func TestProcessMessage_FallbackWhenNoContent(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	server, _ := chatStub(t, http.StatusOK, `{"choices": []}`)
	l := newLogic(t, db, server.URL)

	reply, err := l.ProcessMessage(context.Background(), "user-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, fallback, reply)

	var turn models.ConversationTurn
	require.NoError(t, db.First(&turn).Error)
	assert.Equal(t, fallback, turn.AgentResponse, "fallback string is persisted like any reply")
}

func TestProcessMessage_UpstreamFailure(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	server, _ := chatStub(t, http.StatusInternalServerError, `{"error": {"message": "model overloaded"}}`)
	l := newLogic(t, db, server.URL)

	_, err := l.ProcessMessage(context.Background(), "user-1", "hello")
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusInternalServerError, upstreamErr.Status)
	assert.Equal(t, "model overloaded", upstreamErr.Message)

	assert.EqualValues(t, 0, countTurns(t, db), "no write when inference fails")
}

func TestProcessMessage_UpstreamUnreachable(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	server, _ := chatStub(t, http.StatusOK, completionBody("unused"))
	server.Close()
	l := newLogic(t, db, server.URL)

	_, err := l.ProcessMessage(context.Background(), "user-1", "hello")
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, 0, upstreamErr.Status)
	assert.EqualValues(t, 0, countTurns(t, db))
}

// A write failure after a successful inference call loses the generated
// reply: the caller gets a PersistenceError and never sees the text.
func TestProcessMessage_ReplyDiscardedOnWriteFailure(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	server, calls := chatStub(t, http.StatusOK, completionBody("a perfectly good answer"))
	l := newLogic(t, db, server.URL)

	require.NoError(t, db.Migrator().DropTable(&models.ConversationTurn{}))

	reply, err := l.ProcessMessage(context.Background(), "user-1", "hello")
	require.Error(t, err)

	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.EqualValues(t, 1, calls.Load(), "inference did run")
	assert.Empty(t, reply, "generated reply is not surfaced on the persistence-failure path")
}

func TestProcessMessage_EchoedPromptCleaned(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	server, _ := chatStub(t, http.StatusOK,
		completionBody(`### Instruction:\nsys\n\n### Response:\nthe answer`))
	l := newLogic(t, db, server.URL)

	reply, err := l.ProcessMessage(context.Background(), "user-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "the answer", reply)
}
