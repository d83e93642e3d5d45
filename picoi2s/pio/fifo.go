package pio

// FIFODepth is how many words the TX FIFO buffers between the streaming
// loop and the data state machine, matching the hardware's 4-deep TX FIFO.
const FIFODepth = 4

// TxFIFO is the word queue feeding a state machine's output shift
// register. One producer (the streaming loop) and one consumer (the
// machine's pull instruction); both run on the control goroutine, so no
// locking is involved.
type TxFIFO struct {
	words [FIFODepth]uint32
	head  int
	count int
}

// Push enqueues a word, reporting false when the FIFO is full. The
// producer handles a full FIFO with backpressure, never by dropping.
func (f *TxFIFO) Push(w uint32) bool {
	if f.count == FIFODepth {
		return false
	}
	f.words[(f.head+f.count)%FIFODepth] = w
	f.count++
	return true
}

// Pull dequeues the oldest word; ok is false when the FIFO is empty.
func (f *TxFIFO) Pull() (w uint32, ok bool) {
	if f.count == 0 {
		return 0, false
	}
	w = f.words[f.head]
	f.head = (f.head + 1) % FIFODepth
	f.count--
	return w, true
}

// Full reports whether a Push would be refused.
func (f *TxFIFO) Full() bool {
	return f.count == FIFODepth
}

// Empty reports whether a Pull would come up dry.
func (f *TxFIFO) Empty() bool {
	return f.count == 0
}

// Len returns the number of buffered words.
func (f *TxFIFO) Len() int {
	return f.count
}
