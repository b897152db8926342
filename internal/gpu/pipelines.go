//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/powder/internal/native"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/block_update.wgsl
var blockUpdateSource string

//go:embed shaders/conditional_write.wgsl
var conditionalWriteSource string

//go:embed shaders/count_reduction.wgsl
var countReductionSource string

// Pipelines holds the three compiled compute pipelines a Backend dispatches
// each frame: the Margolus block kernel, the brush-ingestion conditional
// write, and the particle-count reduction.
type Pipelines struct {
	device hal.Device

	BlockUpdate      hal.ComputePipeline
	BlockUpdateLayout hal.BindGroupLayout

	ConditionalWrite       hal.ComputePipeline
	ConditionalWriteLayout hal.BindGroupLayout

	CountReduction       hal.ComputePipeline
	CountReductionLayout hal.BindGroupLayout

	resources [3]native.GPUResources
}

func buildPipelines(device hal.Device) (Pipelines, error) {
	p := Pipelines{device: device}

	blockRes, blockPipeline, blockLayout, err := buildComputePipeline(device, "block_update", blockUpdateSource,
		[]gputypes.BindGroupLayoutEntry{
			uniformEntry(0, 32),
			storageEntry(1, true),
			storageEntry(2, false),
		})
	if err != nil {
		return Pipelines{}, err
	}
	p.BlockUpdate = blockPipeline
	p.BlockUpdateLayout = blockLayout
	p.resources[0] = blockRes

	writeRes, writePipeline, writeLayout, err := buildComputePipeline(device, "conditional_write", conditionalWriteSource,
		[]gputypes.BindGroupLayoutEntry{
			uniformEntry(0, 16),
			storageEntry(1, false),
			storageEntry(2, false),
		})
	if err != nil {
		p.release()
		return Pipelines{}, err
	}
	p.ConditionalWrite = writePipeline
	p.ConditionalWriteLayout = writeLayout
	p.resources[1] = writeRes

	countRes, countPipeline, countLayout, err := buildComputePipeline(device, "count_reduction", countReductionSource,
		[]gputypes.BindGroupLayoutEntry{
			uniformEntry(0, 16),
			storageEntry(1, true),
			storageEntry(2, false),
		})
	if err != nil {
		p.release()
		return Pipelines{}, err
	}
	p.CountReduction = countPipeline
	p.CountReductionLayout = countLayout
	p.resources[2] = countRes

	return p, nil
}

func (p *Pipelines) release() {
	for i := range p.resources {
		p.resources[i].Destroy()
	}
}

func uniformEntry(binding uint32, minSize uint64) gputypes.BindGroupLayoutEntry {
	return gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: gputypes.ShaderStageCompute,
		Buffer: &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: minSize,
		},
	}
}

func storageEntry(binding uint32, readOnly bool) gputypes.BindGroupLayoutEntry {
	bindingType := gputypes.BufferBindingTypeStorage
	if readOnly {
		bindingType = gputypes.BufferBindingTypeReadOnlyStorage
	}
	return gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: gputypes.ShaderStageCompute,
		Buffer: &gputypes.BufferBindingLayout{
			Type: bindingType,
		},
	}
}

func buildComputePipeline(device hal.Device, label, wgslSource string, entries []gputypes.BindGroupLayoutEntry) (native.GPUResources, hal.ComputePipeline, hal.BindGroupLayout, error) {
	spirv, err := native.CompileShaderToSPIRV(wgslSource)
	if err != nil {
		return native.GPUResources{}, nil, nil, fmt.Errorf("gpu: %w: %s: %v", ErrShaderCompileFailed, label, err)
	}

	module, err := native.CreateShaderModule(device, label+"_shader", spirv)
	if err != nil {
		return native.GPUResources{}, nil, nil, fmt.Errorf("gpu: creating %s shader module: %w", label, err)
	}

	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   label + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		device.DestroyShaderModule(module)
		return native.GPUResources{}, nil, nil, fmt.Errorf("gpu: creating %s bind group layout: %w", label, err)
	}

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{layout},
	})
	if err != nil {
		device.DestroyBindGroupLayout(layout)
		device.DestroyShaderModule(module)
		return native.GPUResources{}, nil, nil, fmt.Errorf("gpu: creating %s pipeline layout: %w", label, err)
	}

	pipeline, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  label + "_pipeline",
		Layout: pipeLayout,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		device.DestroyPipelineLayout(pipeLayout)
		device.DestroyBindGroupLayout(layout)
		device.DestroyShaderModule(module)
		return native.GPUResources{}, nil, nil, fmt.Errorf("gpu: creating %s compute pipeline: %w", label, err)
	}

	resources := native.GPUResources{
		Device:         device,
		ShaderModule:   module,
		PipelineLayout: pipeLayout,
		BindLayouts:    []hal.BindGroupLayout{layout},
		Pipelines:      []hal.ComputePipeline{pipeline},
	}
	return resources, pipeline, layout, nil
}
