package runtime

import (
	"fmt"

	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// handler performs the side effect of one node type.
type handler func(r *run, node *domain.Node) error

func dispatchTable() map[domain.NodeType]handler {
	return map[domain.NodeType]handler{
		domain.TypeClickLeft:   clickHandler(1, domain.ButtonLeft),
		domain.TypeDoubleClick: clickHandler(2, domain.ButtonLeft),
		domain.TypeClickRight:  clickHandler(1, domain.ButtonRight),
		domain.TypeInputText:   inputText,
		domain.TypeWait:        wait,
		domain.TypeScroll:      scroll,
		domain.TypeHotkey:      hotkey,
		domain.TypeLoopStart:   nestedLoopStart,
		domain.TypeLoopEnd:     loopMarker,
	}
}

// dispatch hands one node to its handler and absorbs any failure, panics included.
func (r *run) dispatch(node *domain.Node, inLoop bool) {
	r.report.Dispatched = append(r.report.Dispatched, node.ID)
	r.logger.Debug("dispatch", "node_id", node.ID, "node_type", node.Type, "in_loop", inLoop)
	if r.hooks.OnNodeDispatch != nil {
		r.hooks.OnNodeDispatch(r.ctx, &domain.NodeEvent{
			EventBase: r.event(domain.EventNodeDispatch),
			NodeID:    node.ID,
			NodeType:  node.Type,
			InLoop:    inLoop,
		})
	}

	h, ok := r.handlers[node.Type]
	if !ok {
		r.fail(node, &domain.UnknownNodeTypeError{Type: string(node.Type)})
		return
	}
	if err := r.safely(h, node); err != nil {
		r.fail(node, err)
	}
}

func (r *run) safely(h handler, node *domain.Node) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return h(r, node)
}

// fail records a node failure. Execution carries on with the node's successors.
func (r *run) fail(node *domain.Node, cause error) {
	err := &domain.ActionError{NodeID: node.ID, NodeType: node.Type, Cause: cause}
	r.logger.Error("action failed", "run_id", r.report.RunID, "node_id", node.ID, "node_type", node.Type, "error", cause)

	r.report.Failures = append(r.report.Failures, domain.ActionFailure{
		NodeID:   node.ID,
		NodeType: node.Type,
		Error:    cause.Error(),
	})
	if r.hooks.OnActionError != nil {
		r.hooks.OnActionError(r.ctx, &domain.ActionErrorEvent{
			EventBase: r.event(domain.EventActionError),
			NodeID:    node.ID,
			NodeType:  node.Type,
			Err:       err,
		})
	}
}

// decode fills out from the node's params on top of the type's defaults, then validates it.
func (r *run) decode(node *domain.Node, out any) error {
	merged := domain.DefaultParams(node.Type)
	for k, v := range node.Params {
		if v != nil {
			merged[k] = v
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(merged); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	if err := r.validate.Struct(out); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

func clickHandler(clicks int, button domain.MouseButton) handler {
	return func(r *run, node *domain.Node) error {
		var p domain.ClickParams
		if err := r.decode(node, &p); err != nil {
			return err
		}
		return r.executor.Click(r.ctx, p.Img, p.Retry, clicks, string(button))
	}
}

// inputText skips empty text entirely, clear included.
func inputText(r *run, node *domain.Node) error {
	var p domain.InputTextParams
	if err := r.decode(node, &p); err != nil {
		return err
	}
	if p.Text == "" {
		return nil
	}
	return r.executor.InputText(r.ctx, p.Text, p.Clear)
}

func wait(r *run, node *domain.Node) error {
	var p domain.WaitParams
	if err := r.decode(node, &p); err != nil {
		return err
	}
	return r.executor.Wait(r.ctx, p.Seconds)
}

func scroll(r *run, node *domain.Node) error {
	var p domain.ScrollParams
	if err := r.decode(node, &p); err != nil {
		return err
	}
	return r.executor.Scroll(r.ctx, p.Amount, p.Repeat)
}

func hotkey(r *run, node *domain.Node) error {
	var p domain.HotkeyParams
	if err := r.decode(node, &p); err != nil {
		return err
	}
	keys := p.KeyList()
	if len(keys) == 0 {
		return fmt.Errorf("invalid params: no keys in %q", p.Keys)
	}
	return r.executor.Hotkey(r.ctx, keys, p.Repeat)
}

// nestedLoopStart is reached when a for_loop sits inside another loop's body.
// It only marks the position; the nested body is already part of the outer paths.
func nestedLoopStart(r *run, node *domain.Node) error {
	return nil
}

// loopMarker reports a loop_end met by the main traversal.
func loopMarker(r *run, node *domain.Node) error {
	var p domain.LoopEndParams
	if err := r.decode(node, &p); err != nil {
		return err
	}
	r.logger.Info("loop end", "node_id", node.ID, "name", p.Name)
	if r.hooks.OnLoopMarker != nil {
		r.hooks.OnLoopMarker(r.ctx, &domain.MarkerEvent{
			EventBase: r.event(domain.EventLoopMarker),
			NodeID:    node.ID,
			Name:      p.Name,
		})
	}
	return nil
}
