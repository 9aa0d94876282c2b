package intake

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreSerializesConcurrentWrites(t *testing.T) {
	store := NewSessionStore(time.Hour)
	store.Put("tok", NewForm())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.Access("tok", func(f *Form) {
				f.SetField(fmt.Sprintf("campo_%d", n), n)
				f.ValidateSection(SectionIdentidade)
			})
		}(i)
	}
	wg.Wait()

	var answers int
	ok := store.Access("tok", func(f *Form) { answers = len(f.Answers) })
	require.True(t, ok)
	assert.Equal(t, 16, answers)
}

func TestSessionStoreAccessUnknownToken(t *testing.T) {
	store := NewSessionStore(time.Hour)

	called := false
	ok := store.Access("nao-existe", func(*Form) { called = true })

	assert.False(t, ok)
	assert.False(t, called)
}

func TestSessionStoreDelete(t *testing.T) {
	store := NewSessionStore(time.Hour)
	store.Put("tok", NewForm())
	store.Delete("tok")

	assert.False(t, store.Access("tok", func(*Form) {}))
}

func TestSessionStoreSweepDropsStaleSessions(t *testing.T) {
	store := NewSessionStore(10 * time.Millisecond)
	store.Put("parada", NewForm())

	time.Sleep(20 * time.Millisecond)
	store.Put("ativa", NewForm())

	assert.Equal(t, 1, store.Sweep())
	assert.False(t, store.Access("parada", func(*Form) {}))
	assert.True(t, store.Access("ativa", func(*Form) {}))
}
