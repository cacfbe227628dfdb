package replay_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/stretchr/testify/suite"

	"caguard/internal/guardian/models"
)

type guardStore interface {
	Seen(ctx context.Context, key models.Hash) (bool, error)
	Mark(ctx context.Context, key models.Hash) (bool, error)
	Consume(ctx context.Context, holder models.HolderID, nonce string) (bool, error)
}

// guardContractSuite holds the behaviour every replay store shares. Concrete
// suites embed it and set store in SetupTest.
type guardContractSuite struct {
	suite.Suite
	store guardStore
}

func (s *guardContractSuite) TestSignatureMarkedOnce() {
	ctx := context.Background()
	key := models.HashOf([]byte("signature-1"))

	seen, err := s.store.Seen(ctx, key)
	s.Require().NoError(err)
	s.False(seen)

	fresh, err := s.store.Mark(ctx, key)
	s.Require().NoError(err)
	s.True(fresh)

	fresh, err = s.store.Mark(ctx, key)
	s.Require().NoError(err, "marking twice is not an error")
	s.False(fresh)

	seen, err = s.store.Seen(ctx, key)
	s.Require().NoError(err)
	s.True(seen)

	other, err := s.store.Seen(ctx, models.HashOf([]byte("signature-2")))
	s.Require().NoError(err)
	s.False(other)
}

func (s *guardContractSuite) TestNonceConsumedOncePerHolder() {
	ctx := context.Background()

	fresh, err := s.store.Consume(ctx, "holder-a", "n1")
	s.Require().NoError(err)
	s.True(fresh)

	fresh, err = s.store.Consume(ctx, "holder-a", "n1")
	s.Require().NoError(err)
	s.False(fresh)

	s.Run("same nonce for another holder is fresh", func() {
		fresh, err := s.store.Consume(ctx, "holder-b", "n1")
		s.Require().NoError(err)
		s.True(fresh)
	})

	s.Run("holder and nonce do not alias across the separator", func() {
		fresh, err := s.store.Consume(ctx, "holder-a:n1", "x")
		s.Require().NoError(err)
		s.True(fresh)
	})
}

func (s *guardContractSuite) TestConcurrentConsumeHasOneWinner() {
	ctx := context.Background()
	const goroutines = 32

	var wg sync.WaitGroup
	var winners atomic.Int32
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fresh, err := s.store.Consume(ctx, "holder-race", "nonce")
			if err != nil {
				panic(fmt.Sprintf("goroutine %d: %v", i, err))
			}
			if fresh {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), winners.Load())
}

func (s *guardContractSuite) TestConcurrentMarkHasOneWinner() {
	ctx := context.Background()
	key := models.HashOf([]byte("signature-race"))
	const goroutines = 32

	var wg sync.WaitGroup
	var winners atomic.Int32
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fresh, err := s.store.Mark(ctx, key)
			if err != nil {
				panic(fmt.Sprintf("goroutine %d: %v", i, err))
			}
			if fresh {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), winners.Load())
}
