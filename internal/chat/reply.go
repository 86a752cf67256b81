package chat

import "foundrydemo/internal/model"

// ToReply normalizes a message for display. Block content keeps its order;
// plain string content becomes the reply's Plain text.
func ToReply(msg Message) model.Reply {
	reply := model.Reply{Form: model.FormBlocks, Usage: msg.UsageMetadata.toUsage()}
	if !msg.Content.IsBlocks() {
		reply.Plain = msg.Content.Text
		return reply
	}

	reply.Blocks = make([]model.Block, 0, len(msg.Content.Blocks))
	for _, block := range msg.Content.Blocks {
		out := model.Block{Kind: model.Kind(block.Type)}
		switch block.Type {
		case ContentBlockTypeReasoning:
			for _, part := range block.Summary {
				out.Summary = append(out.Summary, model.SummaryPart{Type: part.Type, Text: model.String(part.Text)})
			}
		case ContentBlockTypeText:
			out.Text = block.Text
		}
		reply.Blocks = append(reply.Blocks, out)
	}
	return reply
}

func (u *UsageMetadata) toUsage() *model.Usage {
	if u == nil {
		return nil
	}
	usage := &model.Usage{
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
		TotalTokens:  u.TotalTokens,
	}
	if u.OutputTokenDetails != nil {
		usage.ReasoningTokens = u.OutputTokenDetails.Reasoning
	}
	return usage
}

func usageMetadataFrom(u *model.Usage) *UsageMetadata {
	if u == nil {
		return nil
	}
	meta := &UsageMetadata{
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
		TotalTokens:  u.TotalTokens,
	}
	if u.ReasoningTokens != nil {
		meta.OutputTokenDetails = &OutputTokenDetails{Reasoning: u.ReasoningTokens}
	}
	return meta
}
