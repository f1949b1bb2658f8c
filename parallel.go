package idpc

import "sync"

// forEachRowRange splits the rows [0, n) into contiguous ranges and calls fn
// for each range on its own goroutine. With numWorkers <= 1 fn runs once on
// the calling goroutine. Ranges never overlap, so fn may write to row-owned
// output without synchronization.
func forEachRowRange(n, numWorkers int, fn func(start, end int)) {
	if numWorkers <= 1 || n <= 1 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > n {
			endRow = n
		}
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(startRow, endRow)
	}

	wg.Wait()
}

// ComputePairwiseDistancesParallel computes the full n×n distance matrix using
// multiple goroutines. data is flat row-major with n rows and dims columns.
// If numWorkers <= 1 it falls back to ComputePairwiseDistances.
//
// The result is bitwise identical to ComputePairwiseDistances. Each worker
// owns a range of source rows i and writes both (i, j) and (j, i) for j > i,
// so every cell has exactly one writer.
func ComputePairwiseDistancesParallel(data []float64, n, dims, numWorkers int) []float64 {
	if numWorkers <= 1 || n <= 1 {
		return ComputePairwiseDistances(data, n, dims)
	}

	result := make([]float64, n*n)
	forEachRowRange(n, numWorkers, func(start, end int) {
		fillDistanceRows(result, data, n, dims, start, end)
	})
	return result
}

// DensityParallel computes local densities with rows split across
// numWorkers goroutines. It returns the same values as Density.
func DensityParallel(dm *DistanceMatrix, dc float64, method DensityMethod, numWorkers int) ([]float64, error) {
	k, err := validateDensity(dm, dc, method)
	if err != nil {
		return nil, err
	}

	rho := make([]float64, dm.Len())
	forEachRowRange(dm.Len(), numWorkers, func(start, end int) {
		fillDensityRows(rho, dm, dc, method, k, start, end)
	})
	return rho, nil
}
