package discordutil

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

const fiveMin = 5 * time.Minute

// Number of pages needed to show totalItems at perPage per page. Always at least 1.
func TotalPages(totalItems, perPage int) int {
	if perPage <= 0 || totalItems <= 0 {
		return 1
	}

	return (totalItems + perPage - 1) / perPage // round to next largest int (ceil)
}

// Gets the start and end indexes for the items that should be on the given page. For example:
//
//	perPage = 50
//	totalItems = 100
//
// If page is 0: output is (0, 50). If page is 1: output is (50, 100).
func PageBounds(page, perPage, totalItems int) (int, int) {
	start := min(page*perPage, totalItems)
	return start, min(start+perPage, totalItems)
}

type InteractionPageFunc func(curPage int, data *discordgo.InteractionResponseData)

// Replies to an interaction with one page of content and lets the author flip through the rest with buttons.
// The buttons stop responding after the timeout.
type InteractionPaginator struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
	userID      string
	messageID   string
	currentPage int
	totalPages  int
	timeout     time.Duration
	cache       map[int]*discordgo.InteractionResponseData
	mu          sync.Mutex
	stopOnce    sync.Once
	stopChan    chan struct{}
	PageFunc    InteractionPageFunc
}

func NewInteractionPaginator(s *discordgo.Session, i *discordgo.Interaction, totalItems, perPage int) *InteractionPaginator {
	return &InteractionPaginator{
		session:     s,
		interaction: i,
		userID:      GetInteractionAuthor(i).ID,
		totalPages:  TotalPages(totalItems, perPage),
		timeout:     fiveMin,
		cache:       make(map[int]*discordgo.InteractionResponseData),
		stopChan:    make(chan struct{}),
	}
}

func (p *InteractionPaginator) TotalPages() int {
	return p.totalPages
}

func (p *InteractionPaginator) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
}

func (p *InteractionPaginator) Start() error {
	p.mu.Lock()
	data := p.getPageData(p.currentPage)
	p.mu.Unlock()

	if _, err := EditOrSendReply(p.session, p.interaction, data); err != nil {
		return err
	}
	if p.totalPages < 2 {
		return nil
	}

	msg, err := p.session.InteractionResponse(p.interaction)
	if err != nil {
		return err
	}

	p.messageID = msg.ID
	p.beginButtonListener()

	return nil
}

// Expects p.mu to be held.
func (p *InteractionPaginator) getPageData(page int) *discordgo.InteractionResponseData {
	if data, ok := p.cache[page]; ok {
		return data
	}

	data := &discordgo.InteractionResponseData{}
	p.PageFunc(page, data)
	if p.totalPages > 1 {
		data.Components = append(data.Components, p.navigationButtonRow(page))
	}

	p.cache[page] = data
	return data
}

func (p *InteractionPaginator) turn(customID string) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	page := p.currentPage
	switch customID {
	case "first":
		page = 0
	case "prev":
		page--
	case "next":
		page++
	case "last":
		page = p.totalPages - 1
	default:
		return 0, false
	}

	// clamp to valid range
	p.currentPage = max(0, min(page, p.totalPages-1))
	return p.currentPage, true
}

func (p *InteractionPaginator) beginButtonListener() {
	handler := func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionMessageComponent {
			return
		}

		// Only handle interactions for this paginator's message, pressed by whoever ran the command.
		if ic.Message == nil || ic.Message.ID != p.messageID {
			return
		}
		if GetInteractionAuthor(ic.Interaction).ID != p.userID {
			return
		}

		page, ok := p.turn(ic.MessageComponentData().CustomID)
		if !ok {
			return
		}

		p.mu.Lock()
		data := p.getPageData(page)
		p.mu.Unlock()

		s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: data,
		})
	}

	remove := p.session.AddHandler(handler)
	go func() {
		defer remove()

		select {
		case <-time.After(p.timeout):
			p.Stop()
		case <-p.stopChan:
		}
	}()
}

func (p *InteractionPaginator) navigationButtonRow(curPage int) discordgo.ActionsRow {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "<<",
				CustomID: "first",
				Style:    discordgo.PrimaryButton,
				Disabled: curPage == 0,
			},
			discordgo.Button{
				Label:    "<",
				CustomID: "prev",
				Style:    discordgo.SuccessButton,
				Disabled: curPage == 0,
			},
			discordgo.Button{
				Label:    ">",
				CustomID: "next",
				Style:    discordgo.SuccessButton,
				Disabled: curPage == p.totalPages-1,
			},
			discordgo.Button{
				Label:    ">>",
				CustomID: "last",
				Style:    discordgo.PrimaryButton,
				Disabled: curPage == p.totalPages-1,
			},
		},
	}
}
