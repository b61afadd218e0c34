// This file materializes ExFS playable trees: the episode playlist,
// torrents and trailers. Trees are built from the item page only when
// requested, and stream URLs resolve later still, at playback time.

package exfs

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/util"
)

// ItemRoot builds the playlist tree of the item: one folder per season
// holding one file per episode, or a single file for films. Videos stay
// unresolved until playback.
func (p *Provider) ItemRoot(ctx context.Context, item *models.ItemInfo) (*models.Folder, error) {
	if item == nil || item.ID == "" {
		return nil, fmt.Errorf("exfs: item with a site id is required")
	}
	doc, base, err := p.itemPage(ctx, item)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return &models.Folder{ID: item.ID, Title: item.Title}, nil
	}

	root := &models.Folder{ID: item.ID, Title: item.Title, Behavior: models.PositionAverage}

	seasons := doc.Find(".player .season")
	if seasons.Length() == 0 {
		// Film layout: one iframe, one file.
		if frame, ok := doc.Find(".player iframe").First().Attr("src"); ok {
			file := &models.File{ID: item.ID, Title: item.Title}
			p.setFrameFactory(file, base, frame)
			root.Add(file)
		}
		return root, nil
	}

	seasons.Each(func(i int, season *goquery.Selection) {
		num := i + 1
		if v, ok := season.Attr("data-season"); ok {
			if n, err := strconv.Atoi(v); err == nil {
				num = n
			}
		}
		folder := &models.Folder{
			ID:       fmt.Sprintf("%s-s%d", item.ID, num),
			Title:    fmt.Sprintf("Season %d", num),
			Season:   num,
			Behavior: models.PositionAverage,
		}

		var files []*models.File
		season.Find(".episode").Each(func(j int, ep *goquery.Selection) {
			frame, ok := ep.Attr("data-frame")
			if !ok || frame == "" {
				return
			}
			episode := j + 1
			if v, ok := ep.Attr("data-episode"); ok {
				if n, err := strconv.Atoi(v); err == nil {
					episode = n
				}
			}
			title := strings.TrimSpace(ep.Text())
			if title == "" {
				title = fmt.Sprintf("Episode %d", episode)
			}
			file := &models.File{
				ID:      fmt.Sprintf("%s-s%de%d", item.ID, num, episode),
				Title:   title,
				Season:  num,
				Episode: episode,
			}
			p.setFrameFactory(file, base, frame)
			files = append(files, file)
		})

		util.SortFiles(files)
		playlist := files
		for _, f := range files {
			f.Playlist = playlist
			folder.Add(f)
		}
		root.Add(folder)
	})
	return root, nil
}

// TorrentsRoot lists the item's torrent downloads as leaf files whose
// single "video" is the torrent link itself.
func (p *Provider) TorrentsRoot(ctx context.Context, item *models.ItemInfo) (*models.Folder, error) {
	if item == nil || item.ID == "" {
		return nil, fmt.Errorf("exfs: item with a site id is required")
	}

	root := &models.Folder{ID: item.ID + "-torrents", Title: "Torrents"}
	p.registerLoader(root.ID, func(ctx context.Context) ([]models.TreeNode, error) {
		doc, base, err := p.itemPage(ctx, item)
		if err != nil || doc == nil {
			return nil, err
		}
		var nodes []models.TreeNode
		doc.Find(".torrents tr").Each(func(i int, row *goquery.Selection) {
			href, ok := row.Find("a").First().Attr("href")
			if !ok {
				return
			}
			link, err := url.Parse(href)
			if err != nil {
				return
			}
			resolved := base.ResolveReference(link).String()
			title := strings.TrimSpace(row.Find(".name").First().Text())
			if title == "" {
				title = fmt.Sprintf("Torrent %d", i+1)
			}
			file := &models.File{ID: fmt.Sprintf("%s-t%d", item.ID, i+1), Title: title}
			file.SetVideosFactory(func(context.Context) ([]models.Video, error) {
				return []models.Video{{
					URL:     resolved,
					Quality: strings.TrimSpace(row.Find(".quality").First().Text()),
				}}, nil
			})
			nodes = append(nodes, file)
		})
		return nodes, nil
	})
	return root, nil
}

// TrailersRoot lists the item's trailers.
func (p *Provider) TrailersRoot(ctx context.Context, item *models.ItemInfo) (*models.Folder, error) {
	if item == nil || item.ID == "" {
		return nil, fmt.Errorf("exfs: item with a site id is required")
	}

	root := &models.Folder{ID: item.ID + "-trailers", Title: "Trailers"}
	p.registerLoader(root.ID, func(ctx context.Context) ([]models.TreeNode, error) {
		doc, base, err := p.itemPage(ctx, item)
		if err != nil || doc == nil {
			return nil, err
		}
		var nodes []models.TreeNode
		doc.Find(".trailers iframe").Each(func(i int, frame *goquery.Selection) {
			src, ok := frame.Attr("src")
			if !ok || src == "" {
				return
			}
			file := &models.File{
				ID:    fmt.Sprintf("%s-tr%d", item.ID, i+1),
				Title: fmt.Sprintf("Trailer %d", i+1),
			}
			p.setFrameFactory(file, base, src)
			nodes = append(nodes, file)
		})
		return nodes, nil
	})
	return root, nil
}

// FolderChildren returns the folder's children, running the deferred
// loader the first time a deferred folder is opened.
func (p *Provider) FolderChildren(ctx context.Context, folder *models.Folder) ([]models.TreeNode, error) {
	if folder == nil {
		return nil, fmt.Errorf("exfs: folder is required")
	}
	if children := folder.Children(); len(children) > 0 {
		return children, nil
	}

	p.folderMu.Lock()
	loader, ok := p.folderLoaders[folder.ID]
	p.folderMu.Unlock()
	if !ok {
		return nil, nil
	}

	nodes, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	folder.Add(nodes...)
	return folder.Children(), nil
}

func (p *Provider) registerLoader(id string, loader folderLoader) {
	p.folderMu.Lock()
	p.folderLoaders[id] = loader
	p.folderMu.Unlock()
}

// setFrameFactory installs a lazy factory resolving the player frame
// through the packed-JS extraction subsystem. An unopenable frame
// yields an empty video set, which playback treats as "no sources".
func (p *Provider) setFrameFactory(file *models.File, base *url.URL, frame string) {
	file.SetVideosFactory(func(ctx context.Context) ([]models.Video, error) {
		link, err := url.Parse(frame)
		if err != nil {
			return nil, nil
		}
		link = base.ResolveReference(link)
		if !p.player.CanOpen(link.Hostname()) {
			return nil, nil
		}
		return p.player.Resolve(ctx, link)
	})
}

func (p *Provider) itemPage(ctx context.Context, item *models.ItemInfo) (*goquery.Document, *url.URL, error) {
	base, err := p.Mirror(ctx)
	if err != nil {
		return nil, nil, err
	}
	link := item.Link
	if link == nil {
		section := item.Section.Name
		if section == "" {
			section = "films"
		}
		link = base.ResolveReference(&url.URL{Path: fmt.Sprintf("/%s/%s.html", section, item.ID)})
	}
	resp, err := p.client.NewRequest(link).WithSemaphore(p.sem).Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, base, nil
	}
	doc, err := resp.HTML()
	if err != nil {
		return nil, base, nil
	}
	return doc, base, nil
}
