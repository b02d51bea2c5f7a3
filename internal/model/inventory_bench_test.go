package model

import (
	"fmt"
	"testing"
)

// --- helpers ---

func benchInventoryWithItems(count int) (*Inventory, []Item) {
	inv := NewInventory("bench")
	items := make([]Item, count)
	for i := range count {
		items[i] = NewItem(fmt.Sprintf("bench.%d", i), "BenchItem", 64)
		if _, _, err := inv.Add(NewOverflowStack(items[i], 640)); err != nil {
			panic(err)
		}
	}
	return inv, items
}

// BenchmarkInventory_AddSubtract measures a back-fill add followed by a drain.
func BenchmarkInventory_AddSubtract(b *testing.B) {
	b.ReportAllocs()
	inv, items := benchInventoryWithItems(50)
	carrier := NewOverflowStack(items[25], 100)

	b.ResetTimer()
	for range b.N {
		_, _, _ = inv.Add(carrier)
		_, _, _ = inv.Subtract(carrier)
	}
}

// BenchmarkInventory_GetCount measures a summed read over 10 stacks.
func BenchmarkInventory_GetCount(b *testing.B) {
	b.ReportAllocs()
	inv, items := benchInventoryWithItems(50)

	b.ResetTimer()
	for range b.N {
		_ = inv.GetCount(items[10])
	}
}

// BenchmarkInventory_BeginRollback measures snapshot cost for 50 items x 10 stacks.
func BenchmarkInventory_BeginRollback(b *testing.B) {
	b.ReportAllocs()
	inv, _ := benchInventoryWithItems(50)

	b.ResetTimer()
	for range b.N {
		inv.BeginTransaction()
		inv.Rollback()
	}
}

// BenchmarkInventory_GetCount_Parallel measures concurrent readers.
func BenchmarkInventory_GetCount_Parallel(b *testing.B) {
	b.ReportAllocs()
	inv, items := benchInventoryWithItems(50)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_ = inv.GetCount(items[i%len(items)])
			i++
		}
	})
}
