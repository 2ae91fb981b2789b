// Package grouping partitions processed clips into the fixed-size runs
// that become concatenated exports.
package grouping

// GroupSize is the number of clips per export. With the 10-second segment
// cap this keeps exports at roughly half a minute.
const GroupSize = 3

// Partition splits paths into consecutive groups of at most GroupSize,
// preserving order. There is no rebalancing: four paths become a group of
// three and a group of one. The returned groups share backing storage with
// the input; callers treat them as read-only.
func Partition(paths []string) [][]string {
	if len(paths) == 0 {
		return nil
	}
	groups := make([][]string, 0, (len(paths)+GroupSize-1)/GroupSize)
	for start := 0; start < len(paths); start += GroupSize {
		end := min(start+GroupSize, len(paths))
		groups = append(groups, paths[start:end])
	}
	return groups
}
