package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gpa-calculator/models"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ReusesUntilInvalidated(t *testing.T) {
	root := newFixture(t)
	c := NewCache(newTestLoader(root, nil), true, log.NewNopLogger())
	ctx := context.Background()

	first, err := c.Department(ctx, "cse")
	require.NoError(t, err)
	assert.True(t, c.Cached("cse"))

	writeCSV(t, filepath.Join(root, "cse", "semester4.csv"), [][]string{
		{"Subject Name", "Credits"},
		{"Compiler Design", "4"},
		{"Total", "4"},
	})

	second, err := c.Department(ctx, "cse")
	require.NoError(t, err)
	assert.Same(t, first, second)

	c.Invalidate("cse")
	assert.False(t, c.Cached("cse"))

	third, err := c.Department(ctx, "cse")
	require.NoError(t, err)
	assert.Equal(t, []string{"Semester1", "Semester2", "Semester4", "Semester10"}, third.SemesterNames())
}

func TestCache_ErrorsNotCached(t *testing.T) {
	root := newFixture(t)
	c := NewCache(newTestLoader(root, nil), true, log.NewNopLogger())

	_, err := c.Department(context.Background(), "mech")
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
	assert.False(t, c.Cached("mech"))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "mech"), 0o755))
	_, err = c.Department(context.Background(), "mech")
	assert.NoError(t, err)
}

func TestCache_Disabled(t *testing.T) {
	c := NewCache(newTestLoader(newFixture(t), nil), false, log.NewNopLogger())

	first, err := c.Department(context.Background(), "cse")
	require.NoError(t, err)
	second, err := c.Department(context.Background(), "cse")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
	assert.False(t, c.Cached("cse"))
}

func TestCache_InvalidateAll(t *testing.T) {
	c := NewCache(newTestLoader(newFixture(t), nil), true, log.NewNopLogger())
	ctx := context.Background()
	_, err := c.Department(ctx, "cse")
	require.NoError(t, err)
	_, err = c.Department(ctx, "ece")
	require.NoError(t, err)

	c.InvalidateAll()

	assert.False(t, c.Cached("cse"))
	assert.False(t, c.Cached("ece"))
}

func TestCache_WatchInvalidatesOnChange(t *testing.T) {
	root := newFixture(t)
	c := NewCache(newTestLoader(root, nil), true, log.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := c.Department(ctx, "cse")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx) }()

	require.Eventually(t, func() bool {
		writeCSV(t, filepath.Join(root, "cse", "semester4.csv"), [][]string{{"Subject Name", "Credits"}})
		return !c.Cached("cse")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestCache_InvalidateDuringLoadNotStored(t *testing.T) {
	for _, tt := range []struct {
		name       string
		invalidate func(c *Cache)
	}{
		{name: "department", invalidate: func(c *Cache) { c.Invalidate("cse") }},
		{name: "all", invalidate: func(c *Cache) { c.InvalidateAll() }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache(newTestLoader(newFixture(t), nil), true, log.NewNopLogger())
			started := make(chan struct{})
			release := make(chan struct{})
			load := c.load
			c.load = func(ctx context.Context, id string) (*models.Department, error) {
				dept, err := load(ctx, id)
				close(started)
				<-release
				return dept, err
			}

			type result struct {
				dept *models.Department
				err  error
			}
			done := make(chan result, 1)
			go func() {
				dept, err := c.Department(context.Background(), "cse")
				done <- result{dept, err}
			}()

			<-started
			tt.invalidate(c)
			close(release)

			res := <-done
			require.NoError(t, res.err)
			assert.Equal(t, "cse", res.dept.ID)
			assert.False(t, c.Cached("cse"))

			c.load = load
			_, err := c.Department(context.Background(), "cse")
			require.NoError(t, err)
			assert.True(t, c.Cached("cse"))
		})
	}
}
