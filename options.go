package dpu

import "github.com/gogpu/dpu/cmdlist"

// RegionOption configures a Region during creation.
type RegionOption func(*regionOptions)

type regionOptions struct {
	observer Observer
}

func defaultRegionOptions() regionOptions {
	return regionOptions{observer: nopObserver{}}
}

// WithObserver installs an observer that sees every dispatched and
// rejected register write of every block in the region.
func WithObserver(o Observer) RegionOption {
	return func(opts *regionOptions) {
		if o != nil {
			opts.observer = o
		}
	}
}

// BlockOption configures a Block during InitBlock.
type BlockOption func(*blockOptions)

type blockOptions struct {
	manager *cmdlist.Manager
}

// WithCommandList supplies the batch manager used by blocks that carry
// FeatureCmdList. Blocks without the feature ignore it.
func WithCommandList(m *cmdlist.Manager) BlockOption {
	return func(o *blockOptions) {
		o.manager = m
	}
}
