package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/seenimoa/genassets/pkg/models"
)

// KeywordTierName identifies the keyword fallback in logs.
const KeywordTierName = "keyword"

// theme is one keyword bundle. match receives the lower-cased prompt.
type theme struct {
	match func(p string) bool
	index models.GeneratedIndex
}

func containsAny(p string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(p, w) {
			return true
		}
	}
	return false
}

// themes are tested in order; the first match wins. Clean energy is
// tested before AI because "sustainable" contains "ai".
var themes = []theme{
	{
		match: func(p string) bool { return containsAny(p, "robotics", "automation") },
		index: models.GeneratedIndex{
			IndexName:   "Robotics & Automation Index",
			Description: "Companies building the robots, machine vision and industrial control systems that automate factories, warehouses and operating rooms.",
			Companies: []models.CompanyMatch{
				{Name: "Intuitive Surgical", Symbol: "ISRG", Sector: "Healthcare", Reasoning: "Pioneer of robot-assisted surgery with the da Vinci platform"},
				{Name: "Rockwell Automation", Symbol: "ROK", Sector: "Industrials", Reasoning: "Industrial automation and factory control systems leader"},
				{Name: "Teradyne Inc.", Symbol: "TER", Sector: "Technology", Reasoning: "Owner of Universal Robots and Mobile Industrial Robots"},
				{Name: "NVIDIA Corporation", Symbol: "NVDA", Sector: "Technology", Reasoning: "Computing platforms powering robot perception and simulation"},
				{Name: "ABB Ltd", Symbol: "ABBNY", Sector: "Industrials", Reasoning: "Global industrial robot manufacturer"},
				{Name: "Cognex Corporation", Symbol: "CGNX", Sector: "Technology", Reasoning: "Machine vision systems for automated inspection"},
				{Name: "Zebra Technologies", Symbol: "ZBRA", Sector: "Technology", Reasoning: "Warehouse automation and autonomous mobile robots"},
				{Name: "Emerson Electric", Symbol: "EMR", Sector: "Industrials", Reasoning: "Process automation software and control hardware"},
			},
		},
	},
	{
		match: func(p string) bool { return containsAny(p, "sustainable", "energy", "clean", "renewable") },
		index: models.GeneratedIndex{
			IndexName:   "Clean Energy Innovation Index",
			Description: "Leading companies driving the transition to sustainable and renewable energy sources, including solar, wind, battery technology, and electric vehicles.",
			Companies: []models.CompanyMatch{
				{Name: "Tesla Inc.", Symbol: "TSLA", Sector: "Automotive", Reasoning: "Electric vehicle leader and energy storage pioneer"},
				{Name: "NextEra Energy", Symbol: "NEE", Sector: "Utilities", Reasoning: "Largest renewable energy generator in North America"},
				{Name: "First Solar Inc.", Symbol: "FSLR", Sector: "Energy", Reasoning: "Leading solar panel manufacturer and project developer"},
				{Name: "Enphase Energy", Symbol: "ENPH", Sector: "Energy", Reasoning: "Solar microinverter technology and energy management"},
				{Name: "Plug Power Inc.", Symbol: "PLUG", Sector: "Energy", Reasoning: "Hydrogen fuel cell solutions for clean energy"},
				{Name: "Brookfield Renewable", Symbol: "BEP", Sector: "Utilities", Reasoning: "Pure-play renewable power platform"},
				{Name: "Vestas Wind Systems", Symbol: "VWS.CO", Sector: "Energy", Reasoning: "Global wind turbine manufacturer"},
				{Name: "Albemarle Corporation", Symbol: "ALB", Sector: "Materials", Reasoning: "Lithium producer for battery technology"},
			},
		},
	},
	{
		match: func(p string) bool {
			return strings.Contains(p, "ceo") && (strings.Contains(p, "40") || strings.Contains(p, "young"))
		},
		index: models.GeneratedIndex{
			IndexName:   "Young CEO Leaders Index",
			Description: "Companies led by founders and chief executives under 40 who are reshaping consumer technology, finance and media.",
			Companies: []models.CompanyMatch{
				{Name: "Snap Inc.", Symbol: "SNAP", Sector: "Communication", Reasoning: "Founder-led camera and social platform"},
				{Name: "Robinhood Markets", Symbol: "HOOD", Sector: "Financials", Reasoning: "Founder-led retail brokerage reshaping investing access"},
				{Name: "Meta Platforms Inc.", Symbol: "META", Sector: "Technology", Reasoning: "Founder-led social media and AI research giant"},
				{Name: "Coinbase Global", Symbol: "COIN", Sector: "Financials", Reasoning: "Founder-led crypto exchange and infrastructure provider"},
				{Name: "DoorDash Inc.", Symbol: "DASH", Sector: "Consumer Discretionary", Reasoning: "Founder-led local commerce and delivery platform"},
				{Name: "Airbnb Inc.", Symbol: "ABNB", Sector: "Consumer Discretionary", Reasoning: "Founder-led travel marketplace"},
				{Name: "Reddit Inc.", Symbol: "RDDT", Sector: "Communication", Reasoning: "Community platform run by its co-founder"},
				{Name: "DraftKings Inc.", Symbol: "DKNG", Sector: "Consumer Discretionary", Reasoning: "Founder-led digital sports entertainment"},
			},
		},
	},
	{
		match: func(p string) bool { return containsAny(p, "ai", "artificial intelligence") },
		index: models.GeneratedIndex{
			IndexName:   "AI Revolution Index",
			Description: "Companies at the forefront of artificial intelligence and machine learning innovation, transforming industries through advanced AI technologies.",
			Companies: []models.CompanyMatch{
				{Name: "NVIDIA Corporation", Symbol: "NVDA", Sector: "Technology", Reasoning: "Leading AI chip manufacturer powering machine learning infrastructure"},
				{Name: "Microsoft Corporation", Symbol: "MSFT", Sector: "Technology", Reasoning: "Major AI investments through OpenAI partnership and Azure AI services"},
				{Name: "Alphabet Inc.", Symbol: "GOOGL", Sector: "Technology", Reasoning: "Google's AI research and DeepMind leading breakthrough AI models"},
				{Name: "Amazon.com Inc.", Symbol: "AMZN", Sector: "Technology", Reasoning: "AWS AI services and Alexa voice AI platform"},
				{Name: "Meta Platforms Inc.", Symbol: "META", Sector: "Technology", Reasoning: "Significant AI research in computer vision and natural language processing"},
				{Name: "Tesla Inc.", Symbol: "TSLA", Sector: "Automotive", Reasoning: "Autonomous driving AI and robotics development"},
				{Name: "Palantir Technologies", Symbol: "PLTR", Sector: "Technology", Reasoning: "Big data analytics and AI-powered decision making platforms"},
				{Name: "Advanced Micro Devices", Symbol: "AMD", Sector: "Technology", Reasoning: "High-performance computing chips for AI workloads"},
			},
		},
	},
	{
		match: func(p string) bool { return containsAny(p, "healthcare", "health", "medical") },
		index: models.GeneratedIndex{
			IndexName:   "Digital Health Innovation Index",
			Description: "Leading healthcare technology companies revolutionizing patient care through digital innovation, telemedicine, and medical AI.",
			Companies: []models.CompanyMatch{
				{Name: "UnitedHealth Group", Symbol: "UNH", Sector: "Healthcare", Reasoning: "Largest healthcare company with digital health initiatives"},
				{Name: "Johnson & Johnson", Symbol: "JNJ", Sector: "Healthcare", Reasoning: "Pharmaceutical giant investing in digital therapeutics"},
				{Name: "Pfizer Inc.", Symbol: "PFE", Sector: "Healthcare", Reasoning: "Leading pharmaceutical company with digital health programs"},
				{Name: "Merck & Co.", Symbol: "MRK", Sector: "Healthcare", Reasoning: "Major pharmaceutical with AI drug discovery initiatives"},
				{Name: "Abbott Laboratories", Symbol: "ABT", Sector: "Healthcare", Reasoning: "Medical devices and digital health monitoring solutions"},
				{Name: "Dexcom Inc.", Symbol: "DXCM", Sector: "Healthcare", Reasoning: "Continuous glucose monitoring and digital diabetes management"},
				{Name: "Teladoc Health", Symbol: "TDOC", Sector: "Healthcare", Reasoning: "Leading telemedicine and virtual care platform"},
				{Name: "Veeva Systems", Symbol: "VEEV", Sector: "Healthcare", Reasoning: "Cloud software for pharmaceutical and biotech industries"},
			},
		},
	},
}

var innovationLeaders = []models.CompanyMatch{
	{Name: "Apple Inc.", Symbol: "AAPL", Sector: "Technology", Reasoning: "Innovation leader in consumer technology and services"},
	{Name: "Microsoft Corporation", Symbol: "MSFT", Sector: "Technology", Reasoning: "Cloud computing and enterprise software innovation"},
	{Name: "Alphabet Inc.", Symbol: "GOOGL", Sector: "Technology", Reasoning: "Search, cloud, and emerging technology leadership"},
	{Name: "Amazon.com Inc.", Symbol: "AMZN", Sector: "Technology", Reasoning: "E-commerce and cloud infrastructure pioneer"},
	{Name: "Tesla Inc.", Symbol: "TSLA", Sector: "Automotive", Reasoning: "Electric vehicle and clean energy innovation"},
	{Name: "NVIDIA Corporation", Symbol: "NVDA", Sector: "Technology", Reasoning: "Advanced computing and AI chip technology"},
	{Name: "Meta Platforms Inc.", Symbol: "META", Sector: "Technology", Reasoning: "Social media and metaverse technology development"},
	{Name: "Netflix Inc.", Symbol: "NFLX", Sector: "Communication", Reasoning: "Streaming technology and content innovation"},
}

// Keyword answers from a fixed table of themed bundles. It never fails.
type Keyword struct{}

// NewKeyword creates the keyword fallback tier.
func NewKeyword() *Keyword { return &Keyword{} }

func (k *Keyword) Name() string { return KeywordTierName }

// ResolveCompanies returns a copy of the first matching bundle, or the
// generic Innovation Leaders bundle built from prompt.
func (k *Keyword) ResolveCompanies(_ context.Context, prompt string) (*models.GeneratedIndex, error) {
	return Match(prompt), nil
}

// Match is the keyword lookup behind the Keyword tier.
func Match(prompt string) *models.GeneratedIndex {
	p := strings.ToLower(prompt)
	for _, t := range themes {
		if t.match(p) {
			return t.index.Clone()
		}
	}
	generic := models.GeneratedIndex{
		IndexName: "Innovation Leaders Index",
		Description: fmt.Sprintf(
			"Companies driving innovation and growth in themes related to \"%s\", representing the future of industry transformation.",
			prompt),
		Companies: innovationLeaders,
	}
	return generic.Clone()
}
