/*
 * Starlet - Delta-time linked list backing the bus's deferred task queue
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

package bus

// task and taskList are the bus's deferred-completion queue: a
// delta-time linked list, same shape as the teacher's emu/event
// scheduler, generalized from a package-level global into a field
// owned by one Bus so multiple Bus instances (tests, future multi-core
// setups) don't share state.
type task struct {
	delay int
	cb    func()
	prev  *task
	next  *task
}

type taskList struct {
	head *task
	tail *task
}

func (l *taskList) add(delay int, cb func()) {
	if delay <= 0 {
		cb()
		return
	}

	t := &task{delay: delay, cb: cb}

	cur := l.head
	if cur == nil {
		l.head, l.tail = t, t
		return
	}
	for cur != nil {
		if t.delay <= cur.delay {
			cur.delay -= t.delay
			t.prev = cur.prev
			t.next = cur
			cur.prev = t
			if t.prev != nil {
				t.prev.next = t
			} else {
				l.head = t
			}
			return
		}
		t.delay -= cur.delay
		cur = cur.next
	}

	t.prev = l.tail
	l.tail.next = t
	l.tail = t
}

func (l *taskList) advance(n int) {
	cur := l.head
	if cur == nil {
		return
	}
	cur.delay -= n
	for cur != nil && cur.delay <= 0 {
		cur.cb()
		l.head = cur.next
		if l.head != nil {
			l.head.prev = nil
		} else {
			l.tail = nil
		}
		cur = l.head
	}
}
