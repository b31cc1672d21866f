package bplus

// binarySearch returns the index of target in keys, or -1.
func binarySearch(keys []int64, target int64) int {
	low := 0
	high := len(keys) - 1
	for low <= high {
		mid := low + (high-low)/2
		switch {
		case keys[mid] == target:
			return mid
		case keys[mid] < target:
			low = mid + 1
		default:
			high = mid - 1
		}
	}
	return -1
}

// lowerBound returns the first index whose key is >= target.
func lowerBound(keys []int64, target int64) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if keys[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// upperBound returns the first index whose key is > target.
// Used for descending: child i covers [keys[i-1], keys[i]).
func upperBound(keys []int64, target int64) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if keys[mid] <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// insert inserts elem at index i in slice.
func insert[T any](slice []T, i int, elem T) []T {
	slice = append(slice, elem) // grow by 1
	copy(slice[i+1:], slice[i:])
	slice[i] = elem
	return slice
}
