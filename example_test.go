package segdeque_test

import (
	"errors"
	"fmt"

	"github.com/lucasgdosr/segdeque"
)

func ExampleDeque() {
	d := segdeque.MakeDeque[int]()
	_ = d.PushBack(1, 2)
	_ = d.PushFront(0)
	_ = d.Insert(2, 10)

	for i, v := range d.All() {
		fmt.Println(i, v)
	}
	back, _ := d.PeekBack()
	fmt.Println("back:", back)
	// Output:
	// 0 0
	// 1 1
	// 2 10
	// 3 2
	// back: 2
}

func ExampleIterator() {
	d := segdeque.CopySliceToDeque([]string{"a", "b", "c", "d"})
	begin, end := d.Begin(), d.End()

	fmt.Println(end.Distance(begin))
	fmt.Println(begin.Add(2).Value(), end.Add(-1).Value(), begin.At(1))
	// Output:
	// 4
	// c d b
}

func ExampleNewDeque() {
	budget := segdeque.NewLimitAllocator(1024)
	d, err := segdeque.NewDeque[int64](
		segdeque.WithBlockSize(16),
		segdeque.WithAllocator(budget),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	for i := range int64(1000) {
		if err := d.PushBack(i); err != nil {
			fmt.Println(errors.Is(err, segdeque.ErrOutOfMemory), d.Len())
			break
		}
	}
	// Output:
	// true 79
}

func ExampleDeque_At() {
	d := segdeque.CopySliceToDeque([]int{1, 2, 3})
	_, err := d.At(3)
	fmt.Println(errors.Is(err, segdeque.ErrOutOfRange))
	// Output:
	// true
}
