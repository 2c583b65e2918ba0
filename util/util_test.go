// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDirs(t *testing.T) {
	base := t.TempDir()
	a := filepath.Join(base, "a")
	b := filepath.Join(base, "nested", "b")
	require.NoError(t, CreateDirs(a, b))
	for _, dir := range []string{a, b} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestContainsString(t *testing.T) {
	sa := []string{"weierstrass", "edwards"}
	assert.True(t, ContainsString(sa, "edwards"))
	assert.False(t, ContainsString(sa, "montgomery"))
}
