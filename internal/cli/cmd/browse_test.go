package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfferLatest_KeepsNewest(t *testing.T) {
	mailbox := make(chan int, 1)

	offerLatest(mailbox, 1)
	offerLatest(mailbox, 2)
	offerLatest(mailbox, 3)

	assert.Equal(t, 3, <-mailbox)
	assert.Empty(t, mailbox)
}
