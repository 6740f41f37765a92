package enrich

// analyzePrompt is filled with website, company name, description and page text.
const analyzePrompt = `Analyze the company behind this website and return ONLY a JSON object of this shape:
{
  "industry": "specific industry category",
  "business_type": "B2B, B2C or Both",
  "company_stage": "Startup, Growth or Enterprise",
  "company_size": "employee count or range",
  "revenue_range": "annual revenue estimate",
  "target_market": "primary customer segments",
  "usp": "unique selling proposition"
}

Company website: %s
Company name: %s
Description: %s
Page content:
%s

Rules:
1. Return only the JSON object, no other text.
2. Use "Unknown" for anything you cannot determine.
3. Be specific with industry categories.
4. Base every value on visible evidence.`

// enrichPrompt is filled with company name, website, known fields (JSON) and
// the list of fields to research.
const enrichPrompt = `Research this company and fill in the requested fields.

Company: %s
Website: %s

Known information:
%s

Fields to research: %s
- industry: be specific, e.g. "Logistics Software" rather than "Technology"
- business_type: exactly one of B2B, B2C or Both
- company_stage: exactly one of Startup, Growth or Enterprise
- company_size: employee count or one of 1-10, 11-50, 51-200, 201-1000, 1000+
- revenue_range: annual revenue estimate
- target_market: primary customer segments

Respond with ONLY a JSON object keyed by field name:
{
  "field_name": {
    "value": "specific finding",
    "confidence": 0-100,
    "evidence": "why this conclusion was reached",
    "source": "where the information was found"
  }
}

Only report values you are confident in (above 70). Use "Unknown" otherwise.`
