package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type LookupRuleInput struct {
	Query string `json:"query" jsonschema:"rules question or search terms"`
}

type LookupRuleOutput struct {
	RuleSet  string `json:"rule_set"`
	Excerpts string `json:"excerpts"`
}

type GetCampaignJournalInput struct{}

type GetCampaignJournalOutput struct {
	Campaign string `json:"campaign"`
	Journal  string `json:"journal"`
}

type GetCharacterSheetInput struct {
	Name string `json:"name" jsonschema:"character name"`
}

type GetCharacterSheetOutput struct {
	Name       string         `json:"name"`
	Backstory  string         `json:"backstory"`
	Attributes map[string]int `json:"attributes"`
	Equipped   []string       `json:"equipped"`
	Inventory  []string       `json:"inventory"`
	StatBlock  string         `json:"stat_block"`
}

type GetCharacterJournalInput struct {
	Name string `json:"name" jsonschema:"character name"`
}

type GetCharacterJournalOutput struct {
	Name    string `json:"name"`
	Journal string `json:"journal"`
}

type ListCharactersInput struct{}

type ListCharactersOutput struct {
	Characters []string `json:"characters"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "lookup_rule",
		Description: "Retrieve the rule excerpts most relevant to a rules question",
	}, s.handleLookupRule)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_campaign_journal",
		Description: "Return the campaign's shared journal",
	}, s.handleGetCampaignJournal)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_character_sheet",
		Description: "Return a character's sheet and rendered stat block",
	}, s.handleGetCharacterSheet)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_character_journal",
		Description: "Return a character's private journal",
	}, s.handleGetCharacterJournal)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_characters",
		Description: "List the campaign's character names",
	}, s.handleListCharacters)
}

func (s *Server) handleLookupRule(ctx context.Context, req *sdk.CallToolRequest, input LookupRuleInput) (*sdk.CallToolResult, LookupRuleOutput, error) {
	if input.Query == "" {
		return nil, LookupRuleOutput{}, fmt.Errorf("query is required")
	}
	if s.rule == nil {
		return nil, LookupRuleOutput{}, fmt.Errorf("no rule source configured")
	}
	excerpts, err := s.rule.LookupRule(ctx, input.Query)
	if err != nil {
		return nil, LookupRuleOutput{}, err
	}
	return nil, LookupRuleOutput{RuleSet: s.campaign.RuleSet, Excerpts: excerpts}, nil
}

func (s *Server) handleGetCampaignJournal(ctx context.Context, req *sdk.CallToolRequest, input GetCampaignJournalInput) (*sdk.CallToolResult, GetCampaignJournalOutput, error) {
	journal, err := s.source.CampaignJournal()
	if err != nil {
		return nil, GetCampaignJournalOutput{}, err
	}
	return nil, GetCampaignJournalOutput{Campaign: s.campaign.Name, Journal: journal}, nil
}

func (s *Server) handleGetCharacterSheet(ctx context.Context, req *sdk.CallToolRequest, input GetCharacterSheetInput) (*sdk.CallToolResult, GetCharacterSheetOutput, error) {
	if input.Name == "" {
		return nil, GetCharacterSheetOutput{}, fmt.Errorf("name is required")
	}
	char, err := s.source.ReadCharacter(input.Name)
	if err != nil {
		return nil, GetCharacterSheetOutput{}, err
	}
	return nil, GetCharacterSheetOutput{
		Name:       char.Name,
		Backstory:  char.Backstory,
		Attributes: char.Attributes,
		Equipped:   append([]string{}, char.Equipped...),
		Inventory:  append([]string{}, char.Inventory...),
		StatBlock:  char.StatBlock(),
	}, nil
}

func (s *Server) handleGetCharacterJournal(ctx context.Context, req *sdk.CallToolRequest, input GetCharacterJournalInput) (*sdk.CallToolResult, GetCharacterJournalOutput, error) {
	if input.Name == "" {
		return nil, GetCharacterJournalOutput{}, fmt.Errorf("name is required")
	}
	if s.campaign.Character(input.Name) == nil {
		return nil, GetCharacterJournalOutput{}, fmt.Errorf("character %q not found", input.Name)
	}
	journal, err := s.source.CharacterJournal(input.Name)
	if err != nil {
		return nil, GetCharacterJournalOutput{}, err
	}
	return nil, GetCharacterJournalOutput{Name: input.Name, Journal: journal}, nil
}

func (s *Server) handleListCharacters(ctx context.Context, req *sdk.CallToolRequest, input ListCharactersInput) (*sdk.CallToolResult, ListCharactersOutput, error) {
	return nil, ListCharactersOutput{Characters: s.campaign.CharacterNames()}, nil
}
