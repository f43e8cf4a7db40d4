package browsersession_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccs-digital/login-director/server/browsersession"
)

func TestSessionIsolation(t *testing.T) {
	store := browsersession.NewStore()

	first := store.Session("session-1")
	second := store.Session("session-2")

	first.Set("key", "value-1")
	second.Set("key", "value-2")

	require.Equal(t, "value-1", first.Get("key"))
	require.Equal(t, "value-2", second.Get("key"))
}

func TestRemoveAndDestroy(t *testing.T) {
	store := browsersession.NewStore()
	session := store.Session("session-1")

	session.Set("a", "1")
	session.Set("b", "2")

	session.Remove("a")
	require.Equal(t, "", session.Get("a"))
	require.Equal(t, "2", session.Get("b"))

	store.Destroy("session-1")
	require.Equal(t, "", session.Get("b"))
}

func TestMissingKeysReadEmpty(t *testing.T) {
	store := browsersession.NewStore()
	require.Equal(t, "", store.Session("nope").Get("missing"))
}

func TestConcurrentAccess(t *testing.T) {
	store := browsersession.NewStore()
	session := store.Session("shared")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			session.Set("key", "value")
		}()
		go func() {
			defer wg.Done()
			session.Get("key")
		}()
	}
	wg.Wait()

	require.Equal(t, "value", session.Get("key"))
}
