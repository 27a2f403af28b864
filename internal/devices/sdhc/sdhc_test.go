/*
 * Starlet - Tests for the SD host controller
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package sdhc

import (
	"testing"

	"github.com/techflashYT/ironic/internal/irq"
)

func sendCmd(h *Host, cmd uint8, arg uint32) error {
	if err := h.Write32(regArgument, arg); err != nil {
		return err
	}
	return h.Write32(regTransferMode, uint32(cmd)<<24)
}

func TestCommandSequenceMatchesMonotonicCardState(t *testing.T) {
	card := NewCard(make([]byte, blockSize))
	h := New(card, nil, irq.SideARM)

	_ = sendCmd(h, 0, 0) // GO_IDLE_STATE
	if card.state != stateIdle {
		t.Fatalf("state after CMD0 = %v, want stateIdle", card.state)
	}
	_ = sendCmd(h, 2, 0) // ALL_SEND_CID
	if card.state != stateIdent {
		t.Fatalf("state after CMD2 = %v, want stateIdent", card.state)
	}
	_ = sendCmd(h, 3, 0) // SEND_RELATIVE_ADDR
	if card.state != stateStby {
		t.Fatalf("state after CMD3 = %v, want stateStby", card.state)
	}
	_ = sendCmd(h, 7, 0) // SELECT/DESELECT
	if card.state != stateTrans {
		t.Fatalf("state after CMD7 = %v, want stateTrans", card.state)
	}
}

func TestCMD2ReturnsCIDNotCSD(t *testing.T) {
	card := NewCard(make([]byte, 4*1024*blockSize))
	h := New(card, nil, irq.SideARM)

	_ = sendCmd(h, 2, 0) // ALL_SEND_CID
	cidResp0, _ := h.Read32(regResponse0)

	_ = sendCmd(h, 9, 0) // SEND_CSD
	csdResp0, _ := h.Read32(regResponse0)

	if cidResp0 == csdResp0 {
		t.Fatal("CMD2 (CID) and CMD9 (CSD) returned the same response word; CID must be a distinct register, not the CSD")
	}
}

func TestReadMultipleBlockTracksBlocksDoneAndClearsPendingCommand(t *testing.T) {
	card := NewCard(make([]byte, blockSize))
	h := New(card, nil, irq.SideARM)

	_ = h.Write32(regBlockSize, 1<<16) // one block
	_ = sendCmd(h, 18, 0)              // READ_MULTIPLE_BLOCK
	if card.pendingCmd == nil || card.pendingCmd.cmd != 18 {
		t.Fatal("CMD18 should leave a pending command until the transfer's data phase completes")
	}

	for i := 0; i < blockSize/4; i++ {
		if _, err := h.Read32(regBufferPort); err != nil {
			t.Fatalf("buffer port read %d: %v", i, err)
		}
	}

	if card.blocksDone != 1 {
		t.Errorf("blocksDone = %d, want 1 after reading one full block", card.blocksDone)
	}
	if card.pendingCmd != nil {
		t.Error("pending command should clear once the transfer's data phase completes")
	}
}
