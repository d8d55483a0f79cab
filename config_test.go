package segdeque

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigVerify(t *testing.T) {
	tests := []struct {
		name        string
		opts        []Option
		expectedErr error
	}{
		{
			name: "default",
		},
		{
			name: "explicit block size",
			opts: []Option{WithBlockSize(4), WithBlockBytes(0)},
		},
		{
			name:        "negative block size",
			opts:        []Option{WithBlockSize(-1)},
			expectedErr: ErrInvalidBlockSize,
		},
		{
			name:        "no block bytes",
			opts:        []Option{WithBlockBytes(0)},
			expectedErr: ErrInvalidBlockSize,
		},
		{
			name:        "empty map",
			opts:        []Option{WithMapSize(0)},
			expectedErr: ErrInvalidMapSize,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			cfg := DefaultConfig()
			for _, opt := range test.opts {
				opt(&cfg)
			}
			err := cfg.Verify()
			require.ErrorIs(err, test.expectedErr)

			_, err = NewDeque[int](test.opts...)
			require.ErrorIs(err, test.expectedErr)
		})
	}
}

func TestBlockSizeOf(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig()
	require.Equal(64, blockSizeOf[int64](&cfg))
	require.Equal(512, blockSizeOf[byte](&cfg))
	require.Equal(512, blockSizeOf[struct{}](&cfg))
	require.Equal(1, blockSizeOf[[1024]byte](&cfg))

	cfg.BlockSize = 4
	require.Equal(4, blockSizeOf[int64](&cfg))
}

func TestNilLoggerAndAllocator(t *testing.T) {
	require := require.New(t)

	d, err := NewDeque[int](WithLogger(nil), WithAllocator(nil), WithMapSize(1), WithBlockSize(1))
	require.NoError(err)
	require.NoError(d.PushBack(1, 2, 3))
	require.Equal([]int{1, 2, 3}, d.MakeSliceCopy())
}
