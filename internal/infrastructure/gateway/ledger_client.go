package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"txpreview/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LedgerClient resolves resources, non-fungible data and dApp definitions
// against the network gateway. It implements port.AssetResolver and
// port.DAppDefinitionResolver.
type LedgerClient struct {
	client       *fasthttp.Client
	baseURL      string
	timeout      time.Duration
	limiter      *rate.Limiter
	cache        *EntityCache
	dapps        *gocache.Cache
	logger       *zap.Logger
	maxAddresses int
}

// NewLedgerClient creates a gateway client. The cache is consulted before
// the network and filled from every successful response; maxAddresses caps
// the addresses sent per entity-details call.
func NewLedgerClient(
	baseURL string,
	timeout time.Duration,
	limiter *rate.Limiter,
	cache *EntityCache,
	logger *zap.Logger,
	maxAddresses int,
) *LedgerClient {
	if maxAddresses <= 0 {
		maxAddresses = 20
	}
	return &LedgerClient{
		client:       &fasthttp.Client{},
		baseURL:      strings.TrimRight(baseURL, "/"),
		timeout:      timeout,
		limiter:      limiter,
		cache:        cache,
		dapps:        gocache.New(30*time.Minute, 10*time.Minute),
		logger:       logger.Named("LedgerClient"),
		maxAddresses: maxAddresses,
	}
}

type entityDetailsRequest struct {
	Addresses []string `json:"addresses"`
}

type entityDetailsResponse struct {
	Items []entityDetails `json:"items"`
}

type entityDetails struct {
	Address        string           `json:"address"`
	Kind           string           `json:"kind"`
	Divisibility   int32            `json:"divisibility"`
	Metadata       entityMetadata   `json:"metadata"`
	DAppDefinition string           `json:"dapp_definition,omitempty"`
	Validator      *validatorDetail `json:"validator,omitempty"`
	Pool           *poolDetail      `json:"pool,omitempty"`
}

type entityMetadata struct {
	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	Description string   `json:"description"`
	IconURL     string   `json:"icon_url"`
	Tags        []string `json:"tags"`
}

type validatorDetail struct {
	Address         string          `json:"address"`
	Name            string          `json:"name"`
	IconURL         string          `json:"icon_url"`
	TotalXRDStake   decimal.Decimal `json:"total_xrd_stake"`
	StakeUnitSupply decimal.Decimal `json:"stake_unit_supply"`
	ClaimNFTAddress string          `json:"claim_nft_address"`
}

type poolDetail struct {
	Address        string               `json:"address"`
	UnitSupply     decimal.Decimal      `json:"unit_supply"`
	DAppDefinition string               `json:"dapp_definition"`
	Resources      []poolResourceDetail `json:"resources"`
}

type poolResourceDetail struct {
	Address      string          `json:"address"`
	Divisibility int32           `json:"divisibility"`
	Reserve      decimal.Decimal `json:"reserve"`
}

type nonFungibleDataRequest struct {
	ResourceAddress string   `json:"resource_address"`
	IDs             []string `json:"ids"`
}

type nonFungibleDataResponse struct {
	Items []nonFungibleDataItem `json:"items"`
}

type nonFungibleDataItem struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	ClaimAmount *decimal.Decimal `json:"claim_amount,omitempty"`
}

// Resolve implements port.AssetResolver. Addresses are answered from the
// session cache where possible and fetched in rate-limited batches
// otherwise. Identifiers the gateway does not know are simply absent from
// the result.
func (c *LedgerClient) Resolve(ctx context.Context, identifiers []entity.ResourceOrNonFungible) ([]entity.Asset, error) {
	addresses, itemsByCollection := partitionIdentifiers(identifiers)

	resolved := make(map[entity.ResourceAddress]entity.Asset, len(addresses))
	missing := make([]entity.ResourceAddress, 0, len(addresses))
	for _, address := range addresses {
		if asset, ok := c.cache.Asset(address); ok {
			resolved[address] = asset
			continue
		}
		missing = append(missing, address)
	}

	if len(missing) > 0 {
		fetched, err := c.fetchAssets(ctx, missing)
		if err != nil {
			return nil, err
		}
		for address, asset := range fetched {
			resolved[address] = asset
		}
	}

	if err := c.attachItems(ctx, resolved, itemsByCollection); err != nil {
		return nil, err
	}

	assets := make([]entity.Asset, 0, len(addresses))
	for _, address := range addresses {
		if asset, ok := resolved[address]; ok {
			c.cache.PutAssets([]entity.Asset{asset})
			assets = append(assets, asset)
		}
	}

	c.logger.Debug("Resolved assets",
		zap.Int("requested", len(addresses)),
		zap.Int("resolved", len(assets)))
	return assets, nil
}

// ResolveDAppDefinition implements port.DAppDefinitionResolver. A component
// names its dApp definition account in metadata; the account's own metadata
// carries the display name and icon.
func (c *LedgerClient) ResolveDAppDefinition(ctx context.Context, address entity.ComponentAddress) (*entity.DAppDefinition, error) {
	if cached, ok := c.dapps.Get(string(address)); ok {
		definition := cached.(entity.DAppDefinition)
		return &definition, nil
	}

	component, err := c.fetchEntityDetails(ctx, []string{string(address)})
	if err != nil {
		return nil, err
	}
	if len(component) == 0 || component[0].DAppDefinition == "" {
		return nil, fmt.Errorf("component %s declares no dapp definition", address)
	}

	definitionAddress := component[0].DAppDefinition
	details, err := c.fetchEntityDetails(ctx, []string{definitionAddress})
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, fmt.Errorf("dapp definition %s not found", definitionAddress)
	}

	definition := entity.DAppDefinition{
		Address: entity.ComponentAddress(definitionAddress),
		Name:    details[0].Metadata.Name,
		IconURL: details[0].Metadata.IconURL,
	}
	c.dapps.SetDefault(string(address), definition)
	return &definition, nil
}

// partitionIdentifiers splits the identifiers into distinct resource
// addresses, in input order, and the requested item ids per collection.
func partitionIdentifiers(identifiers []entity.ResourceOrNonFungible) ([]entity.ResourceAddress, map[entity.ResourceAddress][]entity.NonFungibleLocalID) {
	seen := make(map[entity.ResourceAddress]struct{}, len(identifiers))
	addresses := make([]entity.ResourceAddress, 0, len(identifiers))
	items := make(map[entity.ResourceAddress][]entity.NonFungibleLocalID)

	for _, identifier := range identifiers {
		if _, ok := seen[identifier.ResourceAddress]; !ok {
			seen[identifier.ResourceAddress] = struct{}{}
			addresses = append(addresses, identifier.ResourceAddress)
		}
		if identifier.IsNonFungibleItem() {
			items[identifier.ResourceAddress] = append(items[identifier.ResourceAddress], identifier.LocalID)
		}
	}
	return addresses, items
}

// fetchAssets fetches entity details for the addresses in batches.
func (c *LedgerClient) fetchAssets(ctx context.Context, addresses []entity.ResourceAddress) (map[entity.ResourceAddress]entity.Asset, error) {
	assets := make(map[entity.ResourceAddress]entity.Asset, len(addresses))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(addresses); start += c.maxAddresses {
		end := start + c.maxAddresses
		if end > len(addresses) {
			end = len(addresses)
		}
		batch := addresses[start:end]

		g.Go(func() error {
			raw := make([]string, 0, len(batch))
			for _, address := range batch {
				raw = append(raw, string(address))
			}

			details, err := c.fetchEntityDetails(gctx, raw)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			for _, detail := range details {
				asset, ok := toAsset(detail)
				if !ok {
					c.logger.Warn("Skipping entity of unknown kind",
						zap.String("address", detail.Address),
						zap.String("kind", detail.Kind))
					continue
				}
				assets[entity.ResourceAddress(detail.Address)] = asset
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assets, nil
}

// attachItems loads the data of the requested non-fungible items and attaches
// them to their resolved collections. Cached items are reused; unknown items
// are left out and synthesized later from their ids.
func (c *LedgerClient) attachItems(
	ctx context.Context,
	resolved map[entity.ResourceAddress]entity.Asset,
	itemsByCollection map[entity.ResourceAddress][]entity.NonFungibleLocalID,
) error {
	// Snapshot the collections before fanning out so the map is never read
	// concurrently with the writes below.
	type collectionFetch struct {
		collection entity.ResourceAddress
		ids        []entity.NonFungibleLocalID
		asset      entity.Asset
	}
	fetches := make([]collectionFetch, 0, len(itemsByCollection))
	for collection, ids := range itemsByCollection {
		asset, ok := resolved[collection]
		if !ok || asset.NonFungible == nil {
			continue
		}
		fetches = append(fetches, collectionFetch{collection: collection, ids: ids, asset: asset})
	}

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex

	for _, fetch := range fetches {
		collection, ids, asset := fetch.collection, fetch.ids, fetch.asset

		g.Go(func() error {
			known := make([]entity.NonFungibleItem, 0, len(ids))
			missing := make([]string, 0, len(ids))
			for _, id := range ids {
				if item, ok := c.cache.Item(entity.NonFungibleGlobalID{ResourceAddress: collection, LocalID: id}); ok {
					known = append(known, item)
					continue
				}
				missing = append(missing, string(id))
			}

			if len(missing) > 0 {
				fetched, err := c.fetchNonFungibleData(gctx, collection, missing)
				if err != nil {
					return err
				}
				known = append(known, fetched...)
				c.cache.PutItems(fetched)
			}

			mu.Lock()
			updated := *asset.NonFungible
			updated.Items = known
			asset.NonFungible = &updated
			resolved[collection] = asset
			mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}

func (c *LedgerClient) fetchEntityDetails(ctx context.Context, addresses []string) ([]entityDetails, error) {
	var response entityDetailsResponse
	err := c.post(ctx, "/state/entity/details", entityDetailsRequest{Addresses: addresses}, &response)
	if err != nil {
		return nil, err
	}
	return response.Items, nil
}

func (c *LedgerClient) fetchNonFungibleData(
	ctx context.Context,
	collection entity.ResourceAddress,
	ids []string,
) ([]entity.NonFungibleItem, error) {
	var response nonFungibleDataResponse
	err := c.post(ctx, "/state/non-fungible/data", nonFungibleDataRequest{
		ResourceAddress: string(collection),
		IDs:             ids,
	}, &response)
	if err != nil {
		return nil, err
	}

	items := make([]entity.NonFungibleItem, 0, len(response.Items))
	for _, item := range response.Items {
		items = append(items, entity.NonFungibleItem{
			CollectionAddress: collection,
			LocalID:           entity.NonFungibleLocalID(item.ID),
			Name:              item.Name,
			ClaimAmountXRD:    item.ClaimAmount,
		})
	}
	return items, nil
}

func (c *LedgerClient) post(ctx context.Context, path string, payload any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request for %s: %w", path, err)
	}

	requestURL := c.baseURL + path

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Gateway request failed", zap.String("url", requestURL), zap.Error(err))
		return fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Gateway returned non-OK status",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()))
		return fmt.Errorf("gateway request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to unmarshal response from %s: %w", requestURL, err)
	}
	return nil
}

// toAsset converts gateway entity details into a domain asset.
func toAsset(detail entityDetails) (entity.Asset, bool) {
	metadata := entity.ResourceMetadata{
		Name:        detail.Metadata.Name,
		Symbol:      detail.Metadata.Symbol,
		Description: detail.Metadata.Description,
		IconURL:     detail.Metadata.IconURL,
		Tags:        detail.Metadata.Tags,
	}

	fungible := &entity.FungibleResource{
		Address:      entity.ResourceAddress(detail.Address),
		Divisibility: detail.Divisibility,
		Metadata:     metadata,
	}
	nonFungible := &entity.NonFungibleResource{
		Address:  entity.ResourceAddress(detail.Address),
		Metadata: metadata,
	}

	switch detail.Kind {
	case "token":
		return entity.Asset{Kind: entity.AssetToken, Fungible: fungible}, true

	case "liquidStakeUnit":
		if detail.Validator == nil {
			return entity.Asset{}, false
		}
		return entity.Asset{
			Kind:      entity.AssetLiquidStakeUnit,
			Fungible:  fungible,
			Validator: toValidator(*detail.Validator),
		}, true

	case "poolUnit":
		if detail.Pool == nil {
			return entity.Asset{}, false
		}
		resources := make([]entity.PoolResource, 0, len(detail.Pool.Resources))
		for _, resource := range detail.Pool.Resources {
			resources = append(resources, entity.PoolResource{
				Address:      entity.ResourceAddress(resource.Address),
				Divisibility: resource.Divisibility,
				Reserve:      resource.Reserve,
			})
		}
		return entity.Asset{
			Kind:     entity.AssetPoolUnit,
			Fungible: fungible,
			Pool: &entity.Pool{
				Address:        entity.PoolAddress(detail.Pool.Address),
				UnitSupply:     detail.Pool.UnitSupply,
				Resources:      resources,
				DAppDefinition: entity.ComponentAddress(detail.Pool.DAppDefinition),
			},
		}, true

	case "nonFungibleCollection":
		return entity.Asset{Kind: entity.AssetNonFungibleCollection, NonFungible: nonFungible}, true

	case "stakeClaim":
		if detail.Validator == nil {
			return entity.Asset{}, false
		}
		return entity.Asset{
			Kind:        entity.AssetStakeClaim,
			NonFungible: nonFungible,
			Validator:   toValidator(*detail.Validator),
		}, true
	}

	return entity.Asset{}, false
}

func toValidator(detail validatorDetail) *entity.Validator {
	return &entity.Validator{
		Address:              entity.ValidatorAddress(detail.Address),
		Name:                 detail.Name,
		IconURL:              detail.IconURL,
		TotalXRDStake:        detail.TotalXRDStake,
		StakeUnitSupply:      detail.StakeUnitSupply,
		ClaimResourceAddress: entity.ResourceAddress(detail.ClaimNFTAddress),
	}
}
