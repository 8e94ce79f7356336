package util

import (
	"container/heap"
)

//**********************************************************
// list
//**********************************************************

type List[T any] []T

func NewList[T any](capacity int) List[T] {
	return make([]T, 0, capacity)
}

func (self *List[T]) Add(value T) {
	*self = append(*self, value)
}
func (self List[T]) Get(index int) T {
	return self[index]
}
func (self List[T]) Set(index int, value T) {
	self[index] = value
}
func (self List[T]) Length() int {
	return len(self)
}

//**********************************************************
// dict
//**********************************************************

type Dict[K comparable, V any] map[K]V

func NewDict[K comparable, V any](capacity int) Dict[K, V] {
	return make(map[K]V, capacity)
}

func (self Dict[K, V]) ContainsKey(key K) bool {
	_, ok := self[key]
	return ok
}
func (self Dict[K, V]) Get(key K) V {
	return self[key]
}
func (self Dict[K, V]) Set(key K, value V) {
	self[key] = value
}
func (self Dict[K, V]) Delete(key K) {
	delete(self, key)
}
func (self Dict[K, V]) Length() int {
	return len(self)
}

//**********************************************************
// tuple
//**********************************************************

type Tuple[A any, B any] struct {
	A A
	B B
}

func MakeTuple[A any, B any](a A, b B) Tuple[A, B] {
	return Tuple[A, B]{A: a, B: b}
}

//**********************************************************
// priority queue
//**********************************************************

type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

type pq_item[T any, P Number] struct {
	value    T
	priority P
	seq      uint64
}

type pq_heap[T any, P Number] []pq_item[T, P]

func (self pq_heap[T, P]) Len() int { return len(self) }
func (self pq_heap[T, P]) Less(i, j int) bool {
	if self[i].priority == self[j].priority {
		return self[i].seq < self[j].seq
	}
	return self[i].priority < self[j].priority
}
func (self pq_heap[T, P]) Swap(i, j int) { self[i], self[j] = self[j], self[i] }
func (self *pq_heap[T, P]) Push(x any) {
	*self = append(*self, x.(pq_item[T, P]))
}
func (self *pq_heap[T, P]) Pop() any {
	old := *self
	n := len(old)
	item := old[n-1]
	*self = old[:n-1]
	return item
}

// PriorityQueue is a min-queue. Items with equal priority are dequeued in
// insertion order.
type PriorityQueue[T any, P Number] struct {
	items *pq_heap[T, P]
	seq   uint64
}

func NewPriorityQueue[T any, P Number](capacity int) PriorityQueue[T, P] {
	items := make(pq_heap[T, P], 0, capacity)
	return PriorityQueue[T, P]{items: &items}
}

func (self *PriorityQueue[T, P]) Enqueue(value T, priority P) {
	self.seq += 1
	heap.Push(self.items, pq_item[T, P]{value: value, priority: priority, seq: self.seq})
}
func (self *PriorityQueue[T, P]) Dequeue() (T, bool) {
	if self.items.Len() == 0 {
		var t T
		return t, false
	}
	item := heap.Pop(self.items).(pq_item[T, P])
	return item.value, true
}
func (self *PriorityQueue[T, P]) Len() int {
	return self.items.Len()
}
func (self *PriorityQueue[T, P]) Clear() {
	*self.items = (*self.items)[:0]
	self.seq = 0
}
