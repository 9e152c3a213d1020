package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
)

type WalletTestSuite struct {
	suite.Suite
}

func TestWalletSuite(t *testing.T) {
	suite.Run(t, new(WalletTestSuite))
}

func (suite *WalletTestSuite) TestDebitAndCredit() {
	wallet := NewWallet(1000)

	suite.True(wallet.Debit(400.5))
	suite.Equal(599.5, wallet.Balance())

	wallet.Credit(0.5)
	suite.Equal(600.0, wallet.Balance())
}

func (suite *WalletTestSuite) TestDebitBeyondBalance() {
	wallet := NewWallet(100)

	suite.False(wallet.Debit(100.01))
	suite.Equal(100.0, wallet.Balance())

	suite.True(wallet.Debit(100))
	suite.Equal(0.0, wallet.Balance())
}

func (suite *WalletTestSuite) TestNoDriftOverManyOperations() {
	wallet := NewWallet(0)

	for i := 0; i < 1000; i++ {
		wallet.Credit(0.1)
	}

	suite.Equal(100.0, wallet.Balance())
}

func (suite *WalletTestSuite) TestConcurrentCredits() {
	wallet := NewWallet(0)

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			wallet.Credit(2)
		}()
	}

	wg.Wait()

	suite.Equal(100.0, wallet.Balance())
}
